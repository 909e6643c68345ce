package catalog

import (
	"math"

	"tapkombat/internal/game"
)

// Purchase buys one level of the given upgrade: coins go down by the
// current cost, passive profit goes up by the upgrade's fixed
// contribution, and the next cost escalates multiplicatively. The
// whole purchase is atomic; an unknown id or unaffordable cost leaves
// the state untouched and reports ok=false. Callers should flush to
// the progress server after a successful purchase.
func Purchase(p *game.PlayerState, upgradeID string, growth float64) bool {
	for i := range p.Upgrades {
		u := &p.Upgrades[i]
		if u.ID != upgradeID {
			continue
		}
		if p.Coins < u.Cost {
			return false
		}
		p.Coins -= u.Cost
		p.ProfitPerHour += u.ProfitPerHour
		u.Level++
		u.Cost = NextCost(u.Cost, growth)
		return true
	}
	return false
}

// NextCost escalates an upgrade price. Growth is clamped so the cost
// strictly increases on every purchase.
func NextCost(cost int, growth float64) int {
	next := int(math.Floor(float64(cost) * growth))
	if next <= cost {
		next = cost + 1
	}
	return next
}
