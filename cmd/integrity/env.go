package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vishai/nba-integrity/internal/pipeline"
	"github.com/Vishai/nba-integrity/internal/registry"
	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/season"
)

// env bundles everything a command run needs: configuration, the
// store-backed pipeline, and the case registry.
type env struct {
	cfg   *config.Config
	store store.Store
	pipe  *pipeline.Pipeline
	reg   *registry.Registry
}

func loadEnv(configPath string) (*env, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = config.FindConfigFile(wd)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	cacheDir := cfg.Data.Dir
	if cacheDir == "" {
		cacheDir = config.CacheDir()
	}

	dbURL := os.Getenv("INTEGRITY_DATABASE_URL")
	if dbURL == "" {
		dbURL = cfg.Data.DatabaseURL
	}

	var st store.Store
	if cfg.Data.ExportDir != "" {
		st, err = store.NewExportDir(cfg.Data.ExportDir)
	} else if dbURL != "" {
		st, err = store.OpenPostgres(dbURL)
	} else {
		st, err = store.OpenSQLite(filepath.Join(cacheDir, "integrity_cache.db"))
	}
	if err != nil {
		return nil, err
	}

	pipe, err := pipeline.New(cfg, st)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		store: st,
		pipe:  pipe,
		reg:   registry.New(filepath.Join(cacheDir, "registry")),
	}, nil
}

func (e *env) Close() error { return e.store.Close() }

// resolveCase looks up a built-in letter id first, then the registry.
func (e *env) resolveCase(id string) (season.Case, error) {
	if c, err := config.BuiltInCase(id); err == nil {
		return c, nil
	}
	rec, err := e.reg.Case(id)
	if err != nil {
		return season.Case{}, fmt.Errorf("unknown case %q (not built-in, not registered)", id)
	}
	return rec.Case, nil
}
