package model

import (
	"encoding/json"
	"time"
)

// Candle represents one OHLCV bar for a single instrument and timeframe.
// Time is the bar open time in epoch milliseconds (UTC).
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// TS returns the bar open time as a time.Time.
func (c *Candle) TS() time.Time {
	return time.UnixMilli(c.Time).UTC()
}

// TypicalPrice returns (high+low+close)/3.
func (c *Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Body returns the absolute open-to-close distance.
func (c *Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns high-low.
func (c *Candle) Range() float64 {
	return c.High - c.Low
}

// Bullish reports whether the candle closed above its open.
func (c *Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c *Candle) Bearish() bool { return c.Close < c.Open }

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}
