// Command session runs a local play session against a progress
// server: it loads (or mints) the durable player identity, spins up
// the game loop, performs a scripted burst of taps and prints the
// resulting state. Useful for poking at a running server without a
// front end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
	"tapkombat/internal/identity"
	"tapkombat/internal/session"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "progress server base URL")
	dataDir := flag.String("data", "data/client", "client data dir (holds the player id)")
	taps := flag.Int("taps", 50, "number of taps to perform")
	claim := flag.Bool("claim", false, "attempt a daily reward claim")
	flag.Parse()

	log := logrus.New()

	playerID, err := identity.LoadOrCreate(*dataDir)
	if err != nil {
		log.Fatalf("player identity: %v", err)
	}
	log.WithField("player_id", playerID).Info("session starting")

	bal := config.FromEnv()
	s := session.New(playerID, session.NewHTTPClient(*addr), bal, game.RealClock{}, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go s.Run(ctx)

	waitFor(ctx, s, session.PhaseRunning)

	for i := 0; i < *taps; i++ {
		s.Tap(float64(i%100), float64(i%100))
	}
	if *claim {
		if s.ClaimDaily() {
			// Give the server's verdict a moment to land.
			time.Sleep(time.Second)
		} else {
			fmt.Println("daily reward not yet eligible")
		}
	}

	v := s.View()
	fmt.Printf("coins:       %d\n", v.Player.Coins)
	fmt.Printf("energy:      %d / %d\n", v.Player.Energy, v.Player.MaxEnergy)
	fmt.Printf("profit/hour: %d\n", v.Player.ProfitPerHour)
	fmt.Printf("streak:      %d\n", v.Player.DailyStreak)
	if !v.Daily.CanClaim {
		fmt.Printf("next claim:  %s\n", v.Daily.TimeUntilNext.Round(time.Second))
	}

	cancel() // triggers the session's final flush
	time.Sleep(200 * time.Millisecond)
}

func waitFor(ctx context.Context, s *session.Session, phase session.Phase) {
	for ctx.Err() == nil && s.View().Phase != phase {
		time.Sleep(50 * time.Millisecond)
	}
}
