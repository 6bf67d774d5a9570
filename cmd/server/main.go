package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AbuBakr-03/watchtower/internal/api"
	"github.com/AbuBakr-03/watchtower/internal/auth"
	"github.com/AbuBakr-03/watchtower/internal/config"
	"github.com/AbuBakr-03/watchtower/internal/draft"
	"github.com/AbuBakr-03/watchtower/internal/importer"
	"github.com/AbuBakr-03/watchtower/internal/repository/postgres"
	"github.com/AbuBakr-03/watchtower/internal/service/campaign"
	"github.com/AbuBakr-03/watchtower/internal/service/contact"
	"github.com/AbuBakr-03/watchtower/internal/storage"
	"github.com/AbuBakr-03/watchtower/internal/worker"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	log.Println("[Server] connected to PostgreSQL")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[Server] redis unavailable at %s: %v (progress tracking degraded)", cfg.Redis.Addr, err)
	} else {
		log.Println("[Server] connected to Redis")
	}

	phoneCfg, err := cfg.Importer.PhoneConfig()
	if err != nil {
		log.Fatalf("importer config: %v", err)
	}
	importCfg := importer.Config{
		Delimiter:       cfg.Importer.DelimiterRune(),
		Phone:           phoneCfg,
		DefaultTenantID: cfg.Importer.DefaultTenantID,
	}

	contacts := contact.NewService(postgres.NewContactRepo(db), importCfg)
	campaigns := campaign.NewService(postgres.NewCampaignRepo(db))
	jobs := worker.NewImportJobService(contacts, rdb)
	drafts := draft.NewStore(rdb)

	var archiver *storage.Archiver
	if cfg.Archive.Enabled {
		archiver, err = storage.NewArchiver(context.Background(),
			cfg.Archive.S3Bucket, cfg.Archive.S3Region, cfg.Archive.GetAWSProfile())
		if err != nil {
			log.Fatalf("s3 archiver: %v", err)
		}
		log.Printf("[Server] archiving imports to s3://%s", cfg.Archive.S3Bucket)
	}

	tenantMW, err := auth.NewTenantMiddleware(cfg.Auth,
		auth.StaticFlags{SystemEnabled: true, ImportEnabled: true}, rdb)
	if err != nil {
		log.Fatalf("tenant middleware: %v", err)
	}

	handlers := api.NewHandlers(contacts, campaigns, jobs, drafts, archiver,
		api.NewHealthChecker(db, rdb), cfg.Importer.MaxUploadBytes)
	router := api.SetupRoutes(handlers, tenantMW.Handler, cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("[Server] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-done
	log.Println("[Server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] shutdown: %v", err)
	}
	db.Close()
	rdb.Close()
	log.Println("[Server] stopped")
}
