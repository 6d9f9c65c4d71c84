package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loykin/toolhub/internal/catalog"
	"github.com/loykin/toolhub/internal/config"
	"github.com/loykin/toolhub/internal/credential"
	"github.com/loykin/toolhub/internal/hotkey"
	"github.com/loykin/toolhub/internal/logger"
	"github.com/loykin/toolhub/internal/metrics"
	"github.com/loykin/toolhub/internal/server"
	"github.com/loykin/toolhub/internal/store"
	"github.com/loykin/toolhub/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Run the hub daemon",
		Long: `Run the hub daemon: load the config, seed hotkey registrations,
autostart configured tools, and serve the HTTP control API until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("config file required (positional or --config)")
			}
			return runServe(path)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		if err := st.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("store schema: %w", err)
		}
		defer func() { _ = st.Close() }()
	}

	if cfg.Metrics {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			log.Warn("metrics registration failed", "error", err)
		}
	}

	cred := credential.Chain{credential.EnvSource{Key: catalog.CredentialEnvVar}}
	if cfg.EnvFile != "" {
		cred = append(cred, credential.FileSource{Path: cfg.EnvFile, Key: catalog.CredentialEnvVar})
	}

	sup := supervisor.New(supervisor.Options{
		Credential: cred,
		Store:      st,
		Logger:     log,
		StderrDir:  cfg.StderrDir,
	})

	reg := hotkey.Load(cfg.Hotkeys)
	if dropped := len(cfg.Hotkeys) - reg.Len(); dropped > 0 {
		log.Warn("conflicting hotkey registrations dropped", "count", dropped)
	}

	for _, id := range catalog.All() {
		tc := cfg.Tools[id]
		if !tc.Enabled || !tc.Autostart {
			continue
		}
		if err := sup.Start(id, supervisor.LaunchConfig{Hotkey: tc.Hotkey}); err != nil {
			log.Warn("autostart failed", "tool", id, "error", err)
		}
	}

	sup.StartReconciler(cfg.ReconcileInterval)
	sup.StartScanner(cfg.ScanInterval)
	defer sup.StopReconciler()
	defer sup.StopScanner()

	router := server.NewRouter(sup, reg, cfg.BasePath, cfg.Metrics)
	srv := server.NewServer(cfg.Listen, router)
	log.Info("hub daemon listening", "addr", cfg.Listen, "base_path", cfg.BasePath)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	log.Info("shutting down", "signal", sig.String())

	sup.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
