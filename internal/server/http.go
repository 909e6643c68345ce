// Package server implements the remote-collaborator contract for the
// game: load progress, save progress, and the server-authoritative
// daily reward claim.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/config"
	"tapkombat/internal/daily"
	"tapkombat/internal/game"
	"tapkombat/internal/progress"
	"tapkombat/internal/telemetry"
)

type Handler struct {
	repo    progress.Repo
	bal     config.Balance
	clock   game.Clock
	log     *logrus.Logger
	metrics *telemetry.Metrics
}

func NewHandler(repo progress.Repo, bal config.Balance, clock game.Clock, log *logrus.Logger, metrics *telemetry.Metrics) *Handler {
	if clock == nil {
		clock = game.RealClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{repo: repo, bal: bal, clock: clock, log: log, metrics: metrics}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// Load serves GET /api/progress/load?player_id=. An unknown player is
// not an error: found=false plus default state signals a first-timer.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	playerID := strings.TrimSpace(r.URL.Query().Get("player_id"))
	if playerID == "" {
		writeErr(w, http.StatusBadRequest, "player_id is required")
		return
	}

	snap, found, err := h.repo.Get(r.Context(), playerID)
	if err != nil {
		h.log.WithError(err).WithField("player_id", playerID).Error("load progress failed")
		writeErr(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if h.metrics != nil {
		h.metrics.Loads.Inc()
	}
	if !found {
		if h.metrics != nil {
			h.metrics.LoadMisses.Inc()
		}
		defaults := progress.FromState(playerID, *game.NewPlayerState(h.bal))
		writeJSON(w, http.StatusOK, map[string]any{"found": false, "data": defaults})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "data": snap})
}

// Save serves POST /api/progress/save with a full snapshot. The
// daily-reward record is server-authoritative: whatever the client
// sent for it is replaced with the stored values before the upsert.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var snap progress.Snapshot
	if err := decodeJSON(r, &snap); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	if strings.TrimSpace(snap.PlayerID) == "" {
		writeErr(w, http.StatusBadRequest, "player_id is required")
		return
	}

	_, err := h.repo.Update(r.Context(), snap.PlayerID, func(stored progress.Snapshot, found bool) (progress.Snapshot, error) {
		if found {
			snap.LastDailyReward = stored.LastDailyReward
			snap.DailyStreak = stored.DailyStreak
		} else {
			snap.LastDailyReward = nil
			snap.DailyStreak = 0
		}
		return snap, nil
	})
	if err != nil {
		h.log.WithError(err).WithField("player_id", snap.PlayerID).Error("save progress failed")
		writeErr(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if h.metrics != nil {
		h.metrics.Saves.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "progress saved"})
}

type claimRequest struct {
	PlayerID string `json:"player_id"`
}

// Claim serves POST /api/daily/claim. The reward amount and the new
// streak are computed here from the stored record, never taken from
// the client, so a forged local timestamp or streak buys nothing.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeErr(w, http.StatusBadRequest, "player_id is required")
		return
	}

	// Settle under the store's per-player lock so two claims racing
	// inside one window cannot both be granted.
	now := h.clock.Now().UTC()
	var (
		reward, newStreak int
		timeLeft          time.Duration
	)
	updated, err := h.repo.Update(r.Context(), req.PlayerID, func(snap progress.Snapshot, found bool) (progress.Snapshot, error) {
		if !found {
			return progress.Snapshot{}, progress.ErrNotFound
		}
		var claimErr error
		reward, newStreak, claimErr = daily.Claim(h.bal, snap.LastDailyReward, snap.DailyStreak, now)
		if claimErr != nil {
			timeLeft = daily.Evaluate(h.bal, snap.LastDailyReward, snap.DailyStreak, now).TimeUntilNext
			return progress.Snapshot{}, claimErr
		}
		snap.Coins += reward
		snap.LastDailyReward = &now
		snap.DailyStreak = newStreak
		return snap, nil
	})
	switch {
	case errors.Is(err, progress.ErrNotFound):
		writeErr(w, http.StatusNotFound, "player not found")
		return
	case errors.Is(err, daily.ErrNotYetEligible):
		if h.metrics != nil {
			h.metrics.ClaimsRejected.Inc()
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "already claimed today",
			"time_left_seconds": int(timeLeft.Seconds()),
		})
		return
	case err != nil:
		h.log.WithError(err).WithField("player_id", req.PlayerID).Error("claim settle failed")
		writeErr(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	if h.metrics != nil {
		h.metrics.ClaimsGranted.Inc()
		h.metrics.CoinsAwarded.Add(float64(reward))
	}
	h.log.WithFields(logrus.Fields{
		"player_id": req.PlayerID,
		"reward":    reward,
		"streak":    newStreak,
	}).Info("daily reward claimed")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"reward":     reward,
		"new_streak": newStreak,
		"new_coins":  updated.Coins,
	})
}
