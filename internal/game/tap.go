package game

import "time"

// CoinBurst is the transient feedback token emitted for each
// successful tap. It carries the tap's screen coordinates and the
// amount gained, and is discarded after its expiry. It never affects
// PlayerState; it exists for the presentation layer.
type CoinBurst struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Amount    int       `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ApplyTap spends TapPower energy to earn TapPower coins. Taps with
// insufficient energy are a silent no-op; ok reports whether the tap
// counted. Coins never decrease here, only energy does.
func ApplyTap(p *PlayerState, x, y float64, now time.Time, burstTTL time.Duration) (CoinBurst, bool) {
	if p.Energy < p.TapPower {
		return CoinBurst{}, false
	}
	p.Coins += p.TapPower
	p.Energy -= p.TapPower
	return CoinBurst{
		X:         x,
		Y:         y,
		Amount:    p.TapPower,
		ExpiresAt: now.Add(burstTTL),
	}, true
}

// PruneBursts drops expired feedback tokens, preserving order.
func PruneBursts(bursts []CoinBurst, now time.Time) []CoinBurst {
	live := bursts[:0]
	for _, b := range bursts {
		if now.Before(b.ExpiresAt) {
			live = append(live, b)
		}
	}
	return live
}
