package main

import (
	"Bullpen/config"
	_ "Bullpen/config/swagger"
	"Bullpen/middleware"
	"Bullpen/routes"
	"Bullpen/services/redis"
	"Bullpen/services/registry"
	"Bullpen/services/socket_io"
	"Bullpen/services/sync"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title Bullpen API
// @version 1.0
// @description Gin-Gonic server for "Take 5" game rooms
// @host localhost:8080
// @BasePath /
func main() {
	log.Println("Setting up server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	// Both stores are optional. A nil pointer must not end up inside a
	// non-nil interface, so the interfaces are only set on success
	var store registry.SnapshotStore
	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	if redisClient != nil {
		store = redisClient
		defer redis.CloseRedis(redisClient)
	}

	var recorder registry.ResultRecorder
	opts := routes.Options{
		TokenSecret:        []byte(cfg.JWTSecret),
		RequirePlayerToken: cfg.RequirePlayerToken,
	}
	if cfg.Postgres.Enabled() {
		gormDB, err := config.ConnectGORM(cfg.Postgres)
		if err != nil {
			log.Fatalf("Error connecting to PostgreSQL: %v", err)
		}
		log.Println("GORM Connected")

		// Only migrate in development or during deployment
		if cfg.Postgres.Migrate {
			log.Println("Migrating PostgreSQL database...")
			if err := config.MigrateDatabase(gormDB); err != nil {
				log.Printf("Warning: Database migration failed: %v", err)
			} else {
				log.Println("Database migrated successfully")
			}
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
		}
		defer sqlDB.Close()

		syncManager := sync.NewSyncManager(gormDB)
		recorder = syncManager
		opts.History = syncManager
	} else {
		log.Println("[POSTGRES] POSTGRES_HOST not set, finished games are not recorded")
	}

	reg := registry.New(registry.Config{
		RoomTTL:          cfg.RoomTTL,
		LobbyTTL:         cfg.LobbyTTL,
		AutoPlayAfter:    cfg.AutoPlayAfter,
		SweepInterval:    cfg.SweepInterval,
		SubscriberBuffer: cfg.SubscriberBuffer,
		HandSize:         cfg.HandSize,
		MaxRounds:        cfg.MaxRounds,

		// SNAPSHOT_TTL=0 keeps archives only while the room is in memory
		DropArchive: cfg.SnapshotTTL == 0,
	}, store, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()

	r := gin.Default()

	middleware.SetUpMiddleware(r, cfg.SessionKey)

	routes.SetupRoutes(r, reg, opts)

	sio := &socket_io.MySocketServer{}
	sio.Start(r, reg, opts.TokenSecret, opts.RequirePlayerToken)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Error starting server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	sio.Close()

	// Wait for pending snapshots and results to be written
	<-done
	log.Println("Server stopped")
}
