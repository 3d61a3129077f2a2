// missionctl is the operations dashboard daemon: it keeps the mission
// queue in sync with live agent sessions and serves the dashboard API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"missionctl/internal/config"
	"missionctl/internal/runtime"
	"missionctl/internal/scheduler"
	syncengine "missionctl/internal/sync"
	"missionctl/internal/tasks"
	"missionctl/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.missionctl/config.json)")
	listen := flag.String("listen", "", "HTTP listen address override")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Web.Listen = *listen
	}

	store, err := tasks.NewStore(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open task store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	rt := runtime.NewClient(cfg.Runtime.Bin, cfg.Runtime.StateDir)
	syncer := syncengine.New(rt, store, cfg.Sync)
	sched := scheduler.NewService(cfg.Sync.Schedule, syncer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		slog.Error("failed to start sync scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := web.NewServer(store, rt, sched)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Web.Listen)
		errCh <- srv.Run(cfg.Web.Listen)
	}()

	select {
	case err := <-errCh:
		slog.Error("server exited", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("shutting down")
	}
}
