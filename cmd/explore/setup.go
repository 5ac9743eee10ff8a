package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hack-pad/hackpadfs/mem"

	"explore-engine/internal/config"
	"explore-engine/internal/controller"
	"explore-engine/internal/env"
	"explore-engine/internal/kv"
	"explore-engine/internal/logger"
	"explore-engine/internal/notify"
	"explore-engine/internal/proximity"
	"explore-engine/internal/trigger"
)

// session is the wiring shared by every subcommand.
type session struct {
	cfg   config.Config
	log   *logger.Logger
	msgs  *notify.Messages
	store kv.Store
	close []func() error
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil && !errors.Is(err, config.ErrInvalidFile) {
		return cfg, err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "explore: using defaults:", err)
	}
	dotenv, err := env.Read(opts.dotenvPath)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", opts.dotenvPath, err)
	}
	if err := config.ApplyEnv(&cfg, env.Merge(dotenv, env.Environ())); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func openSession(opts options, stderr io.Writer) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Path: cfg.Log.Path, Extra: stderr})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log.Logger)

	s := &session{cfg: cfg, log: log, msgs: notify.NewMessages(cfg.Locale)}
	s.close = append(s.close, log.Close)

	store, closer, err := openStore(cfg.Store)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.store = store
	if closer != nil {
		s.close = append([]func() error{closer}, s.close...)
	}
	log.Info("store opened", "backend", cfg.Store.Backend, "path", cfg.Store.Path)
	return s, nil
}

func openStore(cfg config.Store) (kv.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := kv.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendMemory:
		fsys, err := mem.NewFS()
		if err != nil {
			return nil, nil, fmt.Errorf("create memory store: %w", err)
		}
		return kv.NewFileStore(fsys, "progress"), nil, nil
	default:
		store, err := kv.OpenDir(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// controller builds the core context over the session's store.
func (s *session) controller(ctx context.Context, sink notify.Sink, nav trigger.Navigator) (*controller.Context, error) {
	ds, err := proximity.LoadDatasetFile(s.cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return controller.New(ctx, s.cfg.ControllerConfig(), controller.Deps{
		Dataset:   ds,
		Store:     s.store,
		Sink:      sink,
		Navigator: nav,
		Logger:    s.log.Logger,
		Messages:  s.msgs,
	})
}

func (s *session) Close() {
	for _, c := range s.close {
		if err := c(); err != nil {
			fmt.Fprintln(os.Stderr, "explore: close:", err)
		}
	}
}
