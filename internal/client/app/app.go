// Package app wires configuration, logging, the local session store and the
// service client together for one CLI invocation.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"biokeeper/internal/client/api"
	"biokeeper/internal/client/config"
	"biokeeper/internal/client/session"
	"biokeeper/internal/shared/logger"
)

type App struct {
	Config   config.Config
	Logger   *zap.Logger
	API      *api.Client
	Sessions *session.Store
	Gate     *session.Gate
	// Location is the zone local times are shown in.
	Location *time.Location
	Now      func() time.Time
}

func New(cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(cfg.SessionDB); err != nil {
		return nil, err
	}
	store, err := session.New(cfg.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	client := api.New(cfg.Server, cfg.Timeout, log)
	log.Debug("client ready",
		zap.String("server", cfg.Server),
		zap.String("profile", cfg.Profile),
		zap.String("config_file", cfg.File),
	)
	return &App{
		Config:   cfg,
		Logger:   log,
		API:      client,
		Sessions: store,
		Gate:     session.NewGate(client, store, log),
		Location: time.Local,
		Now:      time.Now,
	}, nil
}

// ensureDir creates the parent directory of a file-backed session DSN.
func ensureDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.Sessions.Close()
}
