package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/catalog"
	"tapkombat/internal/config"
	"tapkombat/internal/daily"
	"tapkombat/internal/game"
	"tapkombat/internal/progress"
)

type Phase int

const (
	// PhaseLoading suppresses all player input until the remote copy
	// has been fetched (or given up on).
	PhaseLoading Phase = iota
	PhaseRunning
	PhaseClosed
)

// View is a consistent copy of session state for the presentation
// layer, safe to read outside the loop.
type View struct {
	Phase  Phase
	Player game.PlayerState
	Bursts []game.CoinBurst
	Daily  daily.Status
}

// Session owns one player's simulation. All state lives on a single
// logical thread: the Run loop executes ticks and commands one at a
// time, so callbacks never overlap and no locking is needed around
// PlayerState. Remote calls run on goroutines and post their results
// back into the loop.
type Session struct {
	playerID string
	client   Client
	bal      config.Balance
	clock    game.Clock
	log      *logrus.Logger

	state     *game.PlayerState
	bursts    []game.CoinBurst
	dailyView daily.Status
	phase     Phase

	claimInFlight bool

	cmds chan func()
	done chan struct{}
}

func New(playerID string, client Client, bal config.Balance, clock game.Clock, log *logrus.Logger) *Session {
	bal.ApplyDefaults()
	if clock == nil {
		clock = game.RealClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		playerID: playerID,
		client:   client,
		bal:      bal,
		clock:    clock,
		log:      log,
		phase:    PhaseLoading,
		cmds:     make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Run drives the session until ctx is cancelled. Three periodic
// activities interleave here: energy regeneration, daily countdown
// recomputation and autosave. It blocks; run it on its own goroutine
// and interact through Tap/Purchase/ClaimDaily/View.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	s.startLoad(ctx)

	regen := time.NewTicker(s.bal.RegenTick())
	countdown := time.NewTicker(s.bal.CountdownTick())
	autosave := time.NewTicker(s.bal.AutosaveEvery())
	defer regen.Stop()
	defer countdown.Stop()
	defer autosave.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case fn := <-s.cmds:
			fn()
		case <-regen.C:
			if s.phase != PhaseRunning {
				continue
			}
			game.Regenerate(s.state, 1, s.bal.EnergyPerTick)
			s.bursts = game.PruneBursts(s.bursts, s.clock.Now())
		case <-countdown.C:
			if s.phase != PhaseRunning {
				continue
			}
			s.refreshDaily()
		case <-autosave.C:
			if s.phase != PhaseRunning {
				continue
			}
			s.saveAsync("autosave")
		}
	}
}

// startLoad fetches the remote copy once per session. The client
// already retries with backoff; if it still fails the session starts
// from defaults rather than staying in Loading forever.
func (s *Session) startLoad(ctx context.Context) {
	go func() {
		snap, found, err := s.client.Load(ctx, s.playerID)
		s.post(func() {
			defaults := *game.NewPlayerState(s.bal)
			switch {
			case err != nil:
				s.log.WithError(err).Warn("load failed, starting from defaults")
				s.state = &defaults
			case found:
				st := snap.State(defaults)
				s.state = &st
			default:
				s.state = &defaults
			}
			s.state.Upgrades = catalog.Merge(catalog.Definitions(), s.state.Upgrades)
			s.phase = PhaseRunning
			s.refreshDaily()
			s.log.WithFields(logrus.Fields{
				"player_id": s.playerID,
				"found":     found,
				"coins":     s.state.Coins,
			}).Info("session loaded")
		})
	}()
}

func (s *Session) refreshDaily() {
	s.dailyView = daily.Evaluate(s.bal, s.state.LastDailyReward, s.state.DailyStreak, s.clock.Now().UTC())
}

// Tap applies one tap at the given screen coordinates. It reports
// whether the tap counted; during Loading or with insufficient energy
// it is a no-op.
func (s *Session) Tap(x, y float64) bool {
	return s.ask(func() bool {
		if s.phase != PhaseRunning {
			return false
		}
		burst, ok := game.ApplyTap(s.state, x, y, s.clock.Now(), s.bal.BurstTTL())
		if ok {
			s.bursts = append(s.bursts, burst)
		}
		return ok
	})
}

// Purchase buys one level of an upgrade and, when it succeeds,
// flushes immediately instead of waiting for the autosave tick.
func (s *Session) Purchase(upgradeID string) bool {
	return s.ask(func() bool {
		if s.phase != PhaseRunning {
			return false
		}
		ok := catalog.Purchase(s.state, upgradeID, s.bal.CostGrowth)
		if ok {
			s.saveAsync("purchase")
		}
		return ok
	})
}

// ClaimDaily asks the server to settle a claim. It reports whether a
// request was issued; the outcome arrives asynchronously and is
// folded into the state by the loop. The local eligibility check is
// advisory only, the server's answer is authoritative.
func (s *Session) ClaimDaily() bool {
	return s.ask(func() bool {
		if s.phase != PhaseRunning || s.claimInFlight {
			return false
		}
		s.refreshDaily()
		if !s.dailyView.CanClaim {
			return false
		}
		s.claimInFlight = true
		go s.doClaim()
		return true
	})
}

func (s *Session) doClaim() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := s.client.ClaimDaily(ctx, s.playerID)

	s.post(func() {
		s.claimInFlight = false
		if err != nil {
			s.log.WithError(err).Warn("daily claim failed")
			return
		}
		if !res.Success {
			s.log.WithField("time_left_s", res.TimeLeftSeconds).Info("daily claim rejected")
			return
		}
		// Adopt the server's values verbatim; never trust the local
		// prediction for coins or streak.
		now := s.clock.Now().UTC()
		s.state.Coins = res.NewCoins
		s.state.DailyStreak = res.NewStreak
		s.state.LastDailyReward = &now
		s.refreshDaily()
		s.log.WithFields(logrus.Fields{
			"reward": res.Reward,
			"streak": res.NewStreak,
		}).Info("daily reward claimed")
		s.saveAsync("claim")
	})
}

// View returns a copy of the current state. During Loading the player
// snapshot is zero-valued.
func (s *Session) View() View {
	return askValue(s, func() View {
		v := View{Phase: s.phase, Daily: s.dailyView}
		if s.state != nil {
			v.Player = s.state.Clone()
		}
		v.Bursts = append([]game.CoinBurst(nil), s.bursts...)
		return v
	})
}

// saveAsync pushes the latest snapshot without blocking the loop.
// Failures are logged and swallowed; the next scheduled save is the
// retry. A stale in-flight save is harmless because the next save
// overwrites the remote copy with the newest local snapshot.
func (s *Session) saveAsync(reason string) {
	snap := progress.FromState(s.playerID, *s.state)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.client.Save(ctx, snap); err != nil {
			s.post(func() {
				s.log.WithError(err).WithField("reason", reason).Warn("save failed")
			})
		}
	}()
}

// shutdown makes a final synchronous flush so exiting mid-window does
// not lose the last few seconds of play.
func (s *Session) shutdown() {
	if s.phase == PhaseRunning {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.Save(ctx, progress.FromState(s.playerID, *s.state)); err != nil {
			s.log.WithError(err).Warn("final save failed")
		}
	}
	s.phase = PhaseClosed
}

// post hands a closure to the loop, dropping it once the session is
// gone. Responses from late remote calls use this, which is what
// guarantees they only apply while the session is still active.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

// ask runs a closure on the loop and waits for its answer.
func (s *Session) ask(fn func() bool) bool {
	return askValue(s, fn)
}

func askValue[T any](s *Session, fn func() T) T {
	reply := make(chan T, 1)
	select {
	case s.cmds <- func() { reply <- fn() }:
	case <-s.done:
		var zero T
		return zero
	}
	select {
	case v := <-reply:
		return v
	case <-s.done:
		var zero T
		return zero
	}
}
