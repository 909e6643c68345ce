package game

import (
	"testing"
	"time"

	"tapkombat/internal/config"
)

func TestApplyTap_SpendsEnergyAndEarnsCoins(t *testing.T) {
	bal := config.Default()
	p := NewPlayerState(bal)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	burst, ok := ApplyTap(p, 40, 60, now, bal.BurstTTL())
	if !ok {
		t.Fatalf("expected tap to count")
	}
	if p.Coins != 1 || p.Energy != 999 {
		t.Fatalf("unexpected state after tap: coins=%d energy=%d", p.Coins, p.Energy)
	}
	if burst.Amount != 1 || burst.X != 40 || burst.Y != 60 {
		t.Fatalf("unexpected burst: %+v", burst)
	}
	if !burst.ExpiresAt.Equal(now.Add(time.Second)) {
		t.Fatalf("expected 1s burst expiry, got %v", burst.ExpiresAt)
	}
}

func TestApplyTap_DrainsToZeroThenNoOps(t *testing.T) {
	bal := config.Default()
	p := NewPlayerState(bal)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		if _, ok := ApplyTap(p, 0, 0, now, bal.BurstTTL()); !ok {
			t.Fatalf("tap %d unexpectedly rejected", i)
		}
	}
	if p.Coins != 1000 || p.Energy != 0 {
		t.Fatalf("expected 1000 coins and 0 energy, got coins=%d energy=%d", p.Coins, p.Energy)
	}

	// The 1001st tap must change nothing.
	if _, ok := ApplyTap(p, 0, 0, now, bal.BurstTTL()); ok {
		t.Fatalf("expected tap with no energy to be a no-op")
	}
	if p.Coins != 1000 || p.Energy != 0 {
		t.Fatalf("no-op tap mutated state: coins=%d energy=%d", p.Coins, p.Energy)
	}
	if p.Energy < 0 || p.Energy > p.MaxEnergy {
		t.Fatalf("energy out of bounds: %d", p.Energy)
	}
}

func TestApplyTap_RespectsTapPower(t *testing.T) {
	bal := config.Default()
	p := NewPlayerState(bal)
	p.TapPower = 7
	p.Energy = 6
	now := time.Now()

	if _, ok := ApplyTap(p, 0, 0, now, bal.BurstTTL()); ok {
		t.Fatalf("expected tap below tap power to be rejected")
	}

	p.Energy = 7
	burst, ok := ApplyTap(p, 0, 0, now, bal.BurstTTL())
	if !ok || burst.Amount != 7 {
		t.Fatalf("expected tap worth 7, got ok=%v amount=%d", ok, burst.Amount)
	}
	if p.Coins != 7 || p.Energy != 0 {
		t.Fatalf("unexpected state: coins=%d energy=%d", p.Coins, p.Energy)
	}
}

func TestPruneBursts_DropsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bursts := []CoinBurst{
		{Amount: 1, ExpiresAt: now.Add(-time.Millisecond)},
		{Amount: 2, ExpiresAt: now.Add(500 * time.Millisecond)},
		{Amount: 3, ExpiresAt: now},
	}

	live := PruneBursts(bursts, now)
	if len(live) != 1 || live[0].Amount != 2 {
		t.Fatalf("expected only the unexpired burst, got %+v", live)
	}
}
