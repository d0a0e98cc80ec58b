package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/env"
	"github.com/ekisa-team/hfserve/internal/logger"
	"github.com/ekisa-team/hfserve/internal/model"
)

func main() {
	environment := env.FromEnv()

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile("logs/hfserve.log"),
		),
	)

	if err := run(); err != nil {
		slog.Error("Failed to start model server", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var flags flagSet
	registerFlags(flag.CommandLine, &flags)
	flag.Parse()

	cfg := &config.Config{}
	if flags.configPath != "" {
		loaded, err := config.LoadAndValidate(flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags.apply(flag.CommandLine, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Resolution happens exactly once per process; config edits only take
	// effect on restart.
	if flags.configPath != "" {
		watcher, err := config.NewWatcher(flags.configPath, func(path string) {
			slog.Warn("Config changed, restart required to apply", "config", path)
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	m, err := model.NewResolver(cfg).Resolve(ctx)
	if err != nil {
		return err
	}

	if err := m.Load(ctx); err != nil {
		return err
	}
	defer m.Close()

	slog.Info("Model server ready",
		"model", m.Name(),
		"task", m.Task().String(),
		"backend", m.Backend().String(),
	)

	<-ctx.Done()
	slog.Info("Shutting down")

	return nil
}
