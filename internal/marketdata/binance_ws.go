package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"trading-analyzer/internal/ringbuf"
)

const (
	binanceWSBase = "wss://stream.binance.com:9443/ws"

	wsReadLimit     = 1 << 20
	wsPongWait      = 90 * time.Second
	wsReconnectMin  = 1 * time.Second
	wsReconnectMax  = 30 * time.Second
	wsReconnectMult = 2
)

// KlineStream maintains a Binance kline WebSocket subscription for one
// symbol/timeframe pair and pushes bar revisions into a ring buffer. It
// reconnects with exponential backoff until the context is cancelled.
type KlineStream struct {
	symbol    string
	timeframe string
	out       *ringbuf.Ring

	wsBase string

	// OnReconnect is an optional metrics hook.
	OnReconnect func()
}

func NewKlineStream(symbol, timeframe string, out *ringbuf.Ring) *KlineStream {
	return &KlineStream{
		symbol:    symbol,
		timeframe: timeframe,
		out:       out,
		wsBase:    binanceWSBase,
	}
}

// streamURL builds the combined-stream endpoint, e.g.
// wss://stream.binance.com:9443/ws/btcusdt@kline_1h.
func (s *KlineStream) streamURL() (string, error) {
	interval, ok := binanceIntervals[s.timeframe]
	if !ok {
		return "", fmt.Errorf("binance ws: unsupported timeframe %q", s.timeframe)
	}
	ticker, err := binanceSymbol(s.symbol)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s@kline_%s", s.wsBase, strings.ToLower(ticker), interval), nil
}

// Run connects and pumps updates until ctx is cancelled. Connection errors
// trigger a backoff and reconnect rather than a return.
func (s *KlineStream) Run(ctx context.Context) error {
	url, err := s.streamURL()
	if err != nil {
		return err
	}
	backoff := wsReconnectMin
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.pump(ctx, url)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[binance-ws] %s stream dropped: %v (reconnect in %s)", s.symbol, err, backoff)
		if s.OnReconnect != nil {
			s.OnReconnect()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= wsReconnectMult
		if backoff > wsReconnectMax {
			backoff = wsReconnectMax
		}
	}
}

func (s *KlineStream) pump(ctx context.Context, url string) error {
	dialCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	log.Printf("[binance-ws] connected %s %s", s.symbol, s.timeframe)

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		update, err := parseKlineEvent(s.symbol, msg)
		if err != nil {
			log.Printf("[binance-ws] parse error: %v", err)
			continue
		}
		if !s.out.Push(update) {
			log.Printf("[binance-ws] ring full, dropping %s update", s.symbol)
		}
	}
}

// klineEvent is the Binance kline payload envelope.
type klineEvent struct {
	EventType string `json:"e"`
	Kline     struct {
		OpenTime int64  `json:"t"`
		Open     string `json:"o"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Close    string `json:"c"`
		Volume   string `json:"v"`
		Closed   bool   `json:"x"`
	} `json:"k"`
}

func parseKlineEvent(symbol string, msg []byte) (ringbuf.Update, error) {
	var ev klineEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		return ringbuf.Update{}, fmt.Errorf("binance ws: decode event: %w", err)
	}
	if ev.EventType != "kline" {
		return ringbuf.Update{}, fmt.Errorf("binance ws: unexpected event %q", ev.EventType)
	}
	fields := [5]string{ev.Kline.Open, ev.Kline.High, ev.Kline.Low, ev.Kline.Close, ev.Kline.Volume}
	var vals [5]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ringbuf.Update{}, fmt.Errorf("binance ws: kline field %d: %w", i, err)
		}
		vals[i] = v
	}
	u := ringbuf.Update{Symbol: symbol, Closed: ev.Kline.Closed}
	u.Candle.Time = ev.Kline.OpenTime
	u.Candle.Open, u.Candle.High, u.Candle.Low = vals[0], vals[1], vals[2]
	u.Candle.Close, u.Candle.Volume = vals[3], vals[4]
	return u, nil
}
