package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/avargascr/linaje/internal/config"
	"github.com/avargascr/linaje/internal/family"
	"github.com/avargascr/linaje/internal/logging"
	"github.com/avargascr/linaje/internal/persist"
	"github.com/avargascr/linaje/internal/registry"
)

// newLogger builds the session logger from the loaded config.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Verbose)
}

// loadRegistry restores the registry from the snapshot file, or returns
// an empty one when no snapshot exists yet. Per-family restore failures
// are logged and skipped.
func loadRegistry(cfg config.Config, log *zap.Logger) (*registry.Registry, error) {
	if _, err := os.Stat(cfg.SnapshotFile); os.IsNotExist(err) {
		return registry.New(), nil
	}
	doc, err := persist.Load(cfg.SnapshotFile)
	if err != nil {
		return nil, err
	}
	reg, errs := persist.Restore(doc)
	for _, e := range errs {
		log.Warn("skipped family during restore", zap.Error(e))
	}
	return reg, nil
}

// saveRegistry snapshots the registry back to the snapshot file.
func saveRegistry(cfg config.Config, log *zap.Logger, reg *registry.Registry) error {
	doc, errs := persist.Snapshot(reg)
	for _, e := range errs {
		log.Warn("skipped family during snapshot", zap.Error(e))
	}
	return persist.Save(cfg.SnapshotFile, doc)
}

// currentFamily returns the selected family or a helpful error.
func currentFamily(reg *registry.Registry) (*family.Family, error) {
	f, err := reg.Current()
	if err != nil {
		return nil, fmt.Errorf("no family selected; run `linaje families create` or `linaje families use`")
	}
	return f, nil
}

// session bundles the state every command needs.
type session struct {
	cfg config.Config
	log *zap.Logger
	reg *registry.Registry
}

// openSession loads config, logger, and registry.
func openSession() (*session, error) {
	cfg := config.Load()
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, reg: reg}, nil
}

// close flushes the logger; save must have been called by the command.
func (s *session) close() {
	_ = s.log.Sync()
}

// save persists the registry.
func (s *session) save() error {
	return saveRegistry(s.cfg, s.log, s.reg)
}
