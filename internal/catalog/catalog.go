package catalog

import "tapkombat/internal/game"

// Definitions returns the fixed, ordered upgrade catalog. Each entry
// is seeded at level 0 with its base cost; player-specific levels and
// escalated costs override these on load.
func Definitions() []game.UpgradeState {
	return []game.UpgradeState{
		{ID: "u_golden_hands", Name: "Golden Hands", Icon: "Hand", Cost: 1000, ProfitPerHour: 126, Category: "markets"},
		{ID: "u_coin_stall", Name: "Coin Stall", Icon: "Store", Cost: 1500, ProfitPerHour: 189, Category: "markets"},
		{ID: "u_hamster_bank", Name: "Hamster Bank", Icon: "Landmark", Cost: 2500, ProfitPerHour: 315, Category: "markets"},
		{ID: "u_meme_factory", Name: "Meme Factory", Icon: "Laugh", Cost: 750, ProfitPerHour: 90, Category: "pr_team"},
		{ID: "u_fan_blog", Name: "Fan Blog", Icon: "Megaphone", Cost: 1200, ProfitPerHour: 144, Category: "pr_team"},
		{ID: "u_pocket_lawyer", Name: "Pocket Lawyer", Icon: "Scale", Cost: 3000, ProfitPerHour: 378, Category: "legal"},
		{ID: "u_offshore_wheel", Name: "Offshore Wheel", Icon: "Ship", Cost: 6000, ProfitPerHour: 756, Category: "legal"},
		{ID: "u_seed_vault", Name: "Seed Vault", Icon: "Vault", Cost: 10000, ProfitPerHour: 1260, Category: "specials"},
	}
}

// Merge overlays saved per-player upgrade progress onto the catalog,
// keeping catalog order. Saved entries for ids no longer in the
// catalog are dropped; new catalog entries appear at their defaults.
func Merge(defs, saved []game.UpgradeState) []game.UpgradeState {
	byID := make(map[string]game.UpgradeState, len(saved))
	for _, u := range saved {
		byID[u.ID] = u
	}
	out := make([]game.UpgradeState, len(defs))
	for i, def := range defs {
		out[i] = def
		if got, ok := byID[def.ID]; ok {
			if got.Level > 0 {
				out[i].Level = got.Level
			}
			if got.Cost > def.Cost {
				out[i].Cost = got.Cost
			}
		}
	}
	return out
}
