package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"notes-api/auth"
	"notes-api/config"
	"notes-api/db"
	"notes-api/logger"
	"notes-api/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set; registration, login and note access will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	tokens := auth.NewSigner([]byte(cfg.JWTSecret), auth.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := server.NewRouter(server.Deps{
		Store:       st,
		Credentials: auth.NewCredentials(st, tokens),
		Verifier:    auth.NewGuard(st, tokens),
		CORSOrigins: cfg.CORSOrigins,
		Registry:    reg,
	})

	return server.Run(ctx, server.New(cfg, router), cfg.ShutdownTimeout)
}
