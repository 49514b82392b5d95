package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/app"
	"github.com/jask/jaskcalc/internal/config"
	"github.com/jask/jaskcalc/internal/database"
	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/logger"
	"github.com/jask/jaskcalc/internal/model"
	"github.com/jask/jaskcalc/internal/script"
	"github.com/jask/jaskcalc/internal/shortcut"
)

// runtime is everything a command needs after config has been read.
type runtime struct {
	cfg   config.Config
	ctx   context.Context
	log   *zap.Logger
	db    *sql.DB
	runs  *repository.RunRepo
	calcs *repository.CalculationRepo

	scripts *model.Scripts
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv("JASKCALC_CONFIG", path); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load()
}

// openRuntime loads config, starts logging and opens the history database.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.ContextWithLogger(ctx, log)

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open history: %w", err)
	}

	scripts := model.NewScripts(cfg.Scripts.Dir, script.NewEvaluator())
	if cfg.Scripts.SeedExamples {
		if err := scripts.Seed(); err != nil {
			log.Warn("seed scripts failed", zap.Error(err))
		}
	}

	return &runtime{
		cfg:     cfg,
		ctx:     ctx,
		log:     log,
		db:      db,
		runs:    repository.NewRunRepo(db),
		calcs:   repository.NewCalculationRepo(db),
		scripts: scripts,
	}, nil
}

func (r *runtime) newApp() (*app.App, error) {
	overrides, err := config.LoadKeymap(r.cfg.UI.KeymapPath)
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Options{
		Version:      Version,
		Scripts:      r.scripts,
		Runs:         r.runs,
		Calculations: r.calcs,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", r.cfg.UI.KeymapPath, err)
	}
	if err := a.Scripts.RefreshScriptList(); err != nil {
		r.log.Warn("list scripts failed", zap.Error(err))
	}
	last, err := r.calcs.Last(r.ctx)
	switch {
	case err != nil:
		r.log.Warn("load last calculation failed", zap.Error(err))
	case last != nil:
		a.Calculator.Restore(*last)
	}
	return a, nil
}

func (r *runtime) Close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}

// registry builds the shortcut registry with the user's keymap applied,
// without touching the database.
func registry(cmd *cobra.Command) (*shortcut.Registry[*app.App], error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	overrides, err := config.LoadKeymap(cfg.UI.KeymapPath)
	if err != nil {
		return nil, err
	}
	r := shortcut.NewRegistry(app.DefaultShortcuts()...)
	if err := r.ApplyOverrides(overrides); err != nil {
		return nil, fmt.Errorf("keymap %s: %w", cfg.UI.KeymapPath, err)
	}
	return r, nil
}
