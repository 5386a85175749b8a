// Command server runs the skeleton-arena chat server: a websocket endpoint
// serving the lobby, chat rooms, and skeleton fights.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/colsen/skelarena/internal/chatserver"
	"github.com/colsen/skelarena/internal/config"
	"github.com/colsen/skelarena/internal/game/creature"
	"github.com/colsen/skelarena/internal/observability"
	"github.com/colsen/skelarena/internal/server"
	"github.com/colsen/skelarena/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	contentDir := flag.String("content", "", "creature template directory (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *contentDir != "" {
		cfg.Game.ContentDir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(cfg config.Config, logger *zap.Logger) error {
	templates, err := loadTemplates(cfg.Game)
	if err != nil {
		return fmt.Errorf("loading creature templates: %w", err)
	}

	srv, err := chatserver.New(templates, chatserver.Options{
		Tick:           cfg.Game.Tick,
		IdleWait:       cfg.Game.IdleWait,
		CombatCapacity: cfg.Game.CombatCapacity,
	}, logger.Named("chatserver"))
	if err != nil {
		return fmt.Errorf("building chat server: %w", err)
	}

	acceptor := ws.NewAcceptor(cfg.Listen, ws.SessionHandlerFunc(
		func(ctx context.Context, conn *ws.Conn) {
			srv.HandleSession(ctx, conn)
		},
	), logger.Named("ws"))

	lc := server.NewLifecycle(logger)
	lc.Add("ws-acceptor", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	return lc.Run(context.Background())
}

func loadTemplates(cfg config.GameConfig) (map[string]*creature.Template, error) {
	if cfg.ContentDir == "" {
		return creature.DefaultTemplates(), nil
	}
	return creature.LoadTemplates(cfg.ContentDir)
}
