// Package notification delivers signal-change alerts to external channels
// (Telegram, webhooks) when a symbol's action flips.
package notification

import (
	"context"
	"fmt"
	"log"

	"trading-analyzer/internal/model"
)

// Alert describes one signal transition.
type Alert struct {
	Symbol     string       `json:"symbol"`
	Action     model.Action `json:"action"`
	Prev       model.Action `json:"prev"`
	Confidence int          `json:"confidence"`
	Entry      float64      `json:"entry"`
	StopLoss   float64      `json:"stop_loss"`
	TP1        float64      `json:"tp1"`
}

// Title renders the alert headline.
func (a Alert) Title() string {
	return fmt.Sprintf("%s %s (%d%%)", a.Symbol, a.Action, a.Confidence)
}

// Body renders the trade levels, or a plain note for WAIT transitions.
func (a Alert) Body() string {
	if a.Action == model.ActionWait {
		return fmt.Sprintf("signal cleared (was %s)", a.Prev)
	}
	return fmt.Sprintf("entry %.5g | stop %.5g | tp1 %.5g", a.Entry, a.StopLoss, a.TP1)
}

// Notifier is the interface for all delivery backends.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the process log. Useful in development and
// as the always-on baseline backend.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] %s — %s", alert.Title(), alert.Body())
	return nil
}

// Fanout delivers to every configured backend; a failing backend is logged
// and does not block the others.
type Fanout struct {
	backends []Notifier
}

func NewFanout(backends ...Notifier) *Fanout {
	return &Fanout{backends: backends}
}

func (f *Fanout) Send(ctx context.Context, alert Alert) error {
	var lastErr error
	for _, b := range f.backends {
		if err := b.Send(ctx, alert); err != nil {
			log.Printf("[notify] backend error: %v", err)
			lastErr = err
		}
	}
	return lastErr
}
