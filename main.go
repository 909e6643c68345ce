package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
	"tapkombat/internal/progress"
	"tapkombat/internal/serverapp"
	"tapkombat/internal/telemetry"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	srvCfg, err := config.ServerFromEnv(log)
	if err != nil {
		log.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(srvCfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx := context.Background()
	repo, err := openRepo(ctx, srvCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Balance: config.FromEnv(),
		Repo:    repo,
		Clock:   game.RealClock{},
		Logger:  log,
		Metrics: telemetry.New(),
	})
	if err != nil {
		log.Fatal(err)
	}

	log.WithField("addr", srvCfg.Addr).Info("tapkombat progress server listening")
	log.Fatal(http.ListenAndServe(srvCfg.Addr, handler))
}

func openRepo(ctx context.Context, cfg *config.Server) (progress.Repo, error) {
	switch cfg.DBDialect {
	case "postgres":
		return progress.OpenSQL(ctx, progress.DialectPostgres, cfg.PostgresDSN)
	case "file":
		return progress.NewFileRepo(cfg.DataDir)
	default:
		return progress.OpenSQL(ctx, progress.DialectSQLite, cfg.SQLitePath)
	}
}
