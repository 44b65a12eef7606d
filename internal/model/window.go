package model

// DefaultWindowCap is the reference trailing cap for a candle window.
const DefaultWindowCap = 500

// Window is an ordered sequence of candles with strictly increasing open
// times, trailing-capped at a caller-controlled maximum. The zero value is
// not usable; construct with NewWindow.
type Window struct {
	candles []Candle
	cap     int
}

// NewWindow creates an empty window with the given trailing cap.
// cap <= 0 falls back to DefaultWindowCap.
func NewWindow(cap int) *Window {
	if cap <= 0 {
		cap = DefaultWindowCap
	}
	return &Window{candles: make([]Candle, 0, cap), cap: cap}
}

// WindowFrom builds a window directly from a candle slice, evicting from the
// front if the slice exceeds cap. The slice is copied.
func WindowFrom(candles []Candle, cap int) *Window {
	w := NewWindow(cap)
	if n := len(candles); n > w.cap {
		candles = candles[n-w.cap:]
	}
	w.candles = append(w.candles, candles...)
	return w
}

// Push appends a candle. A candle with the same open time as the last bar
// replaces it (forming-bar update from a stream); an older candle is dropped.
// The oldest bar is evicted once the cap is exceeded.
func (w *Window) Push(c Candle) {
	n := len(w.candles)
	if n > 0 {
		last := w.candles[n-1].Time
		if c.Time == last {
			w.candles[n-1] = c
			return
		}
		if c.Time < last {
			return
		}
	}
	w.candles = append(w.candles, c)
	if len(w.candles) > w.cap {
		w.candles = w.candles[1:]
	}
}

// Len returns the number of candles currently held.
func (w *Window) Len() int { return len(w.candles) }

// Candles returns the underlying ordered candle slice. Callers must treat it
// as read-only.
func (w *Window) Candles() []Candle { return w.candles }

// Last returns the most recent candle, or a zero candle if empty.
func (w *Window) Last() Candle {
	if len(w.candles) == 0 {
		return Candle{}
	}
	return w.candles[len(w.candles)-1]
}

// Closes extracts the close series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}

// Highs extracts the high series.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].High
	}
	return out
}

// Lows extracts the low series.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Low
	}
	return out
}

// Volumes extracts the volume series.
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Volume
	}
	return out
}
