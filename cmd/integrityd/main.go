// Command integrityd is the hosted integrity-index service. It serves
// the case-catalog and scoring API backed by Postgres (or a local
// SQLite cache for development).
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vishai/nba-integrity/internal/api"
	"github.com/Vishai/nba-integrity/internal/pipeline"
	"github.com/Vishai/nba-integrity/internal/registry"
	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/config"
)

type serverConfig struct {
	Port          string
	DatabaseURL   string
	ExportDir     string
	ConfigPath    string
	RegistryDir   string
	APIKey        string
	RatePerMinute int
}

func loadServerConfig() serverConfig {
	ratePerMinute, err := strconv.Atoi(envOrDefault("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil || ratePerMinute <= 0 {
		ratePerMinute = 120
	}
	return serverConfig{
		Port:          envOrDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("INTEGRITY_DATABASE_URL"),
		ExportDir:     os.Getenv("INTEGRITY_EXPORT_DIR"),
		ConfigPath:    os.Getenv("INTEGRITY_CONFIG"),
		RegistryDir:   envOrDefault("INTEGRITY_REGISTRY_DIR", filepath.Join(config.CacheDir(), "registry")),
		APIKey:        os.Getenv("INTEGRITY_API_KEY"),
		RatePerMinute: ratePerMinute,
	}
}

func main() {
	_ = godotenv.Load(".env")

	srvCfg := loadServerConfig()

	cfg, err := config.Load(srvCfg.ConfigPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var st store.Store
	if srvCfg.ExportDir != "" {
		log.Printf("serving datasets read-only from export tree %s", srvCfg.ExportDir)
		st, err = store.NewExportDir(srvCfg.ExportDir)
	} else if srvCfg.DatabaseURL != "" {
		st, err = store.OpenPostgres(srvCfg.DatabaseURL)
	} else {
		log.Println("INTEGRITY_DATABASE_URL not set, using local sqlite cache")
		st, err = store.OpenSQLite(filepath.Join(config.CacheDir(), "integrity_cache.db"))
	}
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	pipe, err := pipeline.New(cfg, st)
	if err != nil {
		log.Fatalf("build pipeline: %v", err)
	}
	reg := registry.New(srvCfg.RegistryDir)

	mux := http.NewServeMux()
	api.NewHandler(pipe, reg).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = api.APIKeyAuth(srvCfg.APIKey)(handler)
	handler = api.RateLimit(srvCfg.RatePerMinute, time.Minute)(handler)
	handler = api.CORS(handler)

	srv := &http.Server{
		Addr:    ":" + srvCfg.Port,
		Handler: handler,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting integrityd on :%s", srvCfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
