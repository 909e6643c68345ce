package serverapp

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
	"tapkombat/internal/httpmw"
	"tapkombat/internal/progress"
	"tapkombat/internal/server"
	"tapkombat/internal/telemetry"
)

type Options struct {
	Balance config.Balance
	Repo    progress.Repo
	Clock   game.Clock
	Logger  *logrus.Logger
	Metrics *telemetry.Metrics
}

// NewHandler wires the progress API: load/save/claim plus health and
// metrics endpoints, wrapped in access-log, request-id and recover
// middleware.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	opts.Balance.ApplyDefaults()

	mux := http.NewServeMux()

	api := server.NewHandler(opts.Repo, opts.Balance, opts.Clock, opts.Logger, opts.Metrics)
	mux.HandleFunc("/api/progress/load", api.Load)
	mux.HandleFunc("/api/progress/save", api.Save)
	mux.HandleFunc("/api/daily/claim", api.Claim)

	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tapkombat",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, _, err := opts.Repo.Get(r.Context(), "readyz_probe"); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "progress storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tapkombat",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}
