package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"tapkombat/internal/config"
	"tapkombat/internal/game"
	"tapkombat/internal/progress"
	"tapkombat/internal/serverapp"
	"tapkombat/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "tapkombat.yml", "balance config file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	bal := config.FromEnv()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		bal = *loaded
	}

	srvCfg, err := config.ServerFromEnv(log)
	if err != nil {
		log.Fatalf("server config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(srvCfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx := context.Background()
	var repo progress.Repo
	switch srvCfg.DBDialect {
	case "postgres":
		repo, err = progress.OpenSQL(ctx, progress.DialectPostgres, srvCfg.PostgresDSN)
	case "file":
		repo, err = progress.NewFileRepo(srvCfg.DataDir)
	default:
		repo, err = progress.OpenSQL(ctx, progress.DialectSQLite, srvCfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer repo.Close()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Balance: bal,
		Repo:    repo,
		Clock:   game.RealClock{},
		Logger:  log,
		Metrics: telemetry.New(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.WithField("addr", srvCfg.Addr).Info("listening")
	log.Fatal(http.ListenAndServe(srvCfg.Addr, handler))
}
