package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sweetshop/internal/auth"
	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/httpserver"
	"sweetshop/internal/inventory"
	"sweetshop/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	key := []byte(cfg.JWTSecret)
	if len(key) == 0 {
		key, err = auth.NewSigningKey()
		if err != nil {
			log.Fatalf("generate signing key: %v", err)
		}
		logger.Warn("SWEETSHOP_JWT_SECRET not set, using a random signing key; tokens will not survive a restart")
	}

	var (
		userStore  auth.UserStore
		sweetStore inventory.Store
	)
	if cfg.DBDSN == "" {
		logger.Warn("SWEETSHOP_DB_DSN not set, using in-memory stores")
		userStore = auth.NewMemoryStore()
		sweetStore = inventory.NewMemoryStore()
	} else {
		var dbConn *sql.DB
		dbConn, err = db.Open(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer dbConn.Close()

		if err := db.RunMigrations(ctx, dbConn); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
		userStore = auth.NewPostgresStore(dbConn)
		sweetStore = inventory.NewPostgresStore(dbConn)
	}

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}
	tokens, err := auth.NewTokenService(key, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	authSvc := auth.NewService(userStore, hasher, tokens, logger)

	if cfg.UsersPath != "" {
		if err := authSvc.SeedFromFile(ctx, cfg.UsersPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Fatalf("seed users: %v", err)
			}
			logger.Warn("user seed file not found", "path", cfg.UsersPath)
		}
	}

	inventorySvc := inventory.NewService(sweetStore, logger)

	handler := httpserver.NewRouter(logger, authSvc, inventorySvc)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctxShutdown)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
