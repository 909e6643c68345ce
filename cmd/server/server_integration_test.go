package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
	"tapkombat/internal/progress"
	"tapkombat/internal/serverapp"
	"tapkombat/internal/session"
	"tapkombat/internal/telemetry"
)

type testApp struct {
	srv   *httptest.Server
	repo  *progress.MemoryRepo
	clock *game.FakeClock
	bal   config.Balance
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	bal := config.Default()
	bal.RegenTickMs = 1
	bal.CountdownTickMs = 1
	bal.AutosaveMs = 3600000

	repo := progress.NewMemoryRepo()
	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	handler, err := serverapp.NewHandler(serverapp.Options{
		Balance: bal,
		Repo:    repo,
		Clock:   clock,
		Logger:  log,
		Metrics: telemetry.New(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testApp{srv: srv, repo: repo, clock: clock, bal: bal}
}

func (a *testApp) startSession(t *testing.T, playerID string) (*session.Session, context.CancelFunc) {
	t.Helper()
	s := session.New(playerID, session.NewHTTPClient(a.srv.URL), a.bal, a.clock, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)
	require.Eventually(t, func() bool {
		return s.View().Phase == session.PhaseRunning
	}, 5*time.Second, time.Millisecond)
	return s, cancel
}

func TestIntegration_PlayPurchasePersist(t *testing.T) {
	app := newTestApp(t)
	s, _ := app.startSession(t, "player_itest")

	for i := 0; i < 100; i++ {
		require.True(t, s.Tap(10, 10))
	}
	v := s.View()
	assert.GreaterOrEqual(t, v.Player.Coins, 100)

	// Not affordable yet, nothing changes.
	require.False(t, s.Purchase("u_golden_hands"))

	// Grind up to the first upgrade and buy it; the purchase flushes
	// straight to the server.
	for s.View().Player.Coins < 1000 {
		s.Tap(0, 0)
	}
	require.True(t, s.Purchase("u_golden_hands"))

	require.Eventually(t, func() bool {
		snap, found, err := app.repo.Get(context.Background(), "player_itest")
		return err == nil && found && snap.ProfitPerHour == 126 && snap.Upgrades[0].Level == 1
	}, 5*time.Second, 5*time.Millisecond)
}

func TestIntegration_StateSurvivesReconnect(t *testing.T) {
	app := newTestApp(t)

	s, cancel := app.startSession(t, "player_itest")
	for i := 0; i < 50; i++ {
		s.Tap(0, 0)
	}
	coins := s.View().Player.Coins

	// Shutting the session down performs the final flush.
	cancel()
	require.Eventually(t, func() bool {
		snap, found, _ := app.repo.Get(context.Background(), "player_itest")
		return found && snap.Coins >= coins
	}, 5*time.Second, 5*time.Millisecond)

	// Second session for the same player picks up the saved copy.
	s2 := session.New("player_itest", session.NewHTTPClient(app.srv.URL), app.bal, app.clock, nil)
	runCtx, runCancel := context.WithCancel(context.Background())
	t.Cleanup(runCancel)

	go s2.Run(runCtx)
	require.Eventually(t, func() bool {
		return s2.View().Phase == session.PhaseRunning
	}, 5*time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, s2.View().Player.Coins, coins)
}

func TestIntegration_DailyClaimRoundTrip(t *testing.T) {
	app := newTestApp(t)

	// The player must exist server-side before a claim can settle.
	require.NoError(t, app.repo.Put(context.Background(), progress.Snapshot{
		PlayerID:  "player_itest",
		Energy:    1000,
		MaxEnergy: 1000,
		TapPower:  1,
		Level:     1,
	}))

	s, _ := app.startSession(t, "player_itest")

	require.True(t, s.ClaimDaily())
	require.Eventually(t, func() bool {
		return s.View().Player.DailyStreak == 1
	}, 5*time.Second, 5*time.Millisecond)

	v := s.View()
	assert.GreaterOrEqual(t, v.Player.Coins, 6000)
	assert.False(t, v.Daily.CanClaim)

	// Same window: the engine refuses to even issue the request.
	assert.False(t, s.ClaimDaily())

	// Next day: streak continues.
	app.clock.Advance(25 * time.Hour)
	require.Eventually(t, func() bool { return s.View().Daily.CanClaim }, 5*time.Second, time.Millisecond)
	require.True(t, s.ClaimDaily())
	require.Eventually(t, func() bool {
		return s.View().Player.DailyStreak == 2
	}, 5*time.Second, 5*time.Millisecond)
}
