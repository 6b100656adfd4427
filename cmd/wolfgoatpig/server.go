package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/server"
	"github.com/lox/wolfgoatpig/internal/store"
)

// ServerCmd runs the WebSocket server.
type ServerCmd struct {
	Config string `kong:"default='wolfgoatpig.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}

	var sinks store.MultiSink
	if cfg.Server.SnapshotDir != "" {
		fileSink, err := store.NewFileSink(cfg.Server.SnapshotDir)
		if err != nil {
			return err
		}
		sinks = append(sinks, fileSink)
	}
	if cfg.Server.DBPath != "" {
		db, err := store.OpenSQLite(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db)
	}
	var sink game.Sink
	if len(sinks) > 0 {
		sink = sinks
	}

	registry := server.NewRegistry(cfg.GameConfig(), sink, logger)
	service := server.NewGameService(registry, logger)
	srv := server.NewServer(addr, service, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return srv.Stop()
	})
	return g.Wait()
}
