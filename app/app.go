// Package app opens the configured backend and wires the engine for the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cableerp/config"
	"cableerp/db"
	"cableerp/db/mongo"
	"cableerp/db/postgres"
	"cableerp/logger"
	"cableerp/repository"
	"cableerp/services"
	"cableerp/utils"
)

// App is one opened backend plus the services bound to it.
type App struct {
	Config   *config.Config
	Store    *repository.Store
	Services *services.Services

	conn  db.DB
	redis *redis.Client
}

// OpenStore connects the backend named by cfg.DBType. Postgres is migrated
// before use and Mongo gets its indexes.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, db.DB, error) {
	log := logger.WithComponent("db")
	switch cfg.DBType {
	case db.Postgres:
		if err := db.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath); err != nil {
			return nil, nil, err
		}
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")
		return repository.NewPostgresStore(pg.Conn), pg, nil

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
		if err := mg.Connect(); err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := repository.EnsureMongoIndexes(ctx, mg.Database()); err != nil {
			_ = mg.Disconnect()
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.MongoDB).Msg("connected to mongo")
		return repository.NewMongoStore(mg.Database()), mg, nil

	case db.Memory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return repository.NewMemoryStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("DB_TYPE %q not supported", cfg.DBType)
}

// New opens the store and builds the services, including the optional Redis
// locker and R2 uploader.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, conn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Store: store, conn: conn}

	opts := services.Options{
		Now:      time.Now,
		Renderer: &utils.InvoicePDFGenerator{Timeout: 45 * time.Second},
		PDFDir:   cfg.PDFDir,
		Log:      logger.WithComponent("services"),
	}

	if cfg.RedisURL != "" {
		ropts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(ropts)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		opts.Locker = services.NewRedisLocker(a.redis, 30*time.Second)
	}

	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts.Uploader = r2
	}

	a.Services = services.New(store, opts)
	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.conn != nil {
		_ = a.conn.Disconnect()
	}
}
