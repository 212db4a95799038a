package main

import (
	"github.com/confdeck/confdeck/internal/backup"
	"github.com/confdeck/confdeck/internal/config"
	"github.com/confdeck/confdeck/internal/engine"
	"github.com/confdeck/confdeck/internal/ledger"
	"github.com/confdeck/confdeck/internal/profile"
	"github.com/confdeck/confdeck/internal/repository"
	"github.com/confdeck/confdeck/internal/validate"
)

// app holds the wired services every command operates through.
type app struct {
	cfg      *config.Config
	repo     *repository.Repository
	ledger   *ledger.Store
	backups  *backup.Store
	engine   *engine.Engine
	profiles *profile.Manager
}

// newApp loads settings from configPath and wires the service graph.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	repo := repository.New(cfg.PackagesDir)
	store := ledger.NewStore(cfg.LedgerPath, nil)
	backups := backup.NewStore(cfg.BackupRoot, nil)
	eng, err := engine.New(engine.Options{
		Ledger:    store,
		Backups:   backups,
		Validator: validate.New(),
	})
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		repo:     repo,
		ledger:   store,
		backups:  backups,
		engine:   eng,
		profiles: profile.NewManager(repo, store, eng),
	}, nil
}
