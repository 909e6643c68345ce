// Package daily implements the daily reward schedule: a 24h claim
// window, a consecutive-day streak with a capped bonus, and the
// reward math shared by the client view and the server-side claim.
package daily

import (
	"errors"
	"time"

	"tapkombat/internal/config"
)

// ErrNotYetEligible is returned for a claim attempted while the
// cooldown window is still running.
var ErrNotYetEligible = errors.New("daily reward not yet eligible")

// Status is the derived, display-facing view of the reward schedule,
// recomputed continuously while a session runs.
type Status struct {
	CanClaim      bool          `json:"can_claim"`
	TimeUntilNext time.Duration `json:"time_until_next"`
	NextStreak    int           `json:"next_streak"`
	NextReward    int           `json:"next_reward"`
}

// RewardFor returns the payout for a claim that lands on the given
// streak day. The per-day bonus stops growing at the cap.
func RewardFor(bal config.Balance, streak int) int {
	bonusDays := streak
	if bonusDays > bal.DailyCapDays {
		bonusDays = bal.DailyCapDays
	}
	if bonusDays < 0 {
		bonusDays = 0
	}
	return bal.DailyBaseReward + bonusDays*bal.DailyPerDayBonus
}

// NextStreak returns the streak a claim at now would land on. A first
// claim, or one after the miss cutoff, starts over at 1; a claim
// within the cutoff continues the run.
func NextStreak(bal config.Balance, lastClaim *time.Time, streak int, now time.Time) int {
	if lastClaim == nil {
		return 1
	}
	if now.Sub(*lastClaim) >= bal.MissCutoff() {
		return 1
	}
	return streak + 1
}

// Evaluate computes the current schedule state. With no prior claim
// the reward is immediately claimable; otherwise the window runs from
// the last claim.
func Evaluate(bal config.Balance, lastClaim *time.Time, streak int, now time.Time) Status {
	next := NextStreak(bal, lastClaim, streak, now)
	st := Status{
		NextStreak: next,
		NextReward: RewardFor(bal, next),
	}
	if lastClaim == nil {
		st.CanClaim = true
		return st
	}
	elapsed := now.Sub(*lastClaim)
	if elapsed >= bal.ClaimWindow() {
		st.CanClaim = true
		return st
	}
	st.TimeUntilNext = bal.ClaimWindow() - elapsed
	return st
}

// Claim settles a claim at now against the stored record. It returns
// the payout and the new streak, or ErrNotYetEligible while cooling
// down. This is the authoritative path: the server runs it and the
// client adopts the result verbatim.
func Claim(bal config.Balance, lastClaim *time.Time, streak int, now time.Time) (reward, newStreak int, err error) {
	st := Evaluate(bal, lastClaim, streak, now)
	if !st.CanClaim {
		return 0, 0, ErrNotYetEligible
	}
	return st.NextReward, st.NextStreak, nil
}
