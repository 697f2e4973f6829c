package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"livefeed/internal/config"
	"livefeed/internal/db"
	"livefeed/internal/repository"
	"livefeed/internal/store/memory"
	"livefeed/internal/store/mysql"
	"livefeed/internal/store/postgres"
	"livefeed/internal/store/redis"
)

const connectTimeout = 10 * time.Second

// NewBackend connects the source and social tables: Postgres when
// POSTGRES_DSN is set, the in-memory store otherwise.
func NewBackend(cfg *config.Config, logger *zap.Logger) (repository.Backend, func(), error) {
	if cfg.PostgresDSN == "" {
		logger.Info("backend: in-memory store")
		return memory.New(logger), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("postgres connect failed", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("backend: postgres")
	return postgres.New(pool, logger), pool.Close, nil
}

func NewSourceRepository(b repository.Backend) repository.SourceRepository {
	return b
}

func NewSocialRepository(b repository.Backend) repository.SocialRepository {
	return b
}

// NewKV picks the key-value store for read state and preferences: Redis,
// then MySQL, then memory.
func NewKV(cfg *config.Config, logger *zap.Logger) (repository.KV, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch {
	case cfg.RedisURL != "":
		client, err := redis.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis dial failed", zap.Error(err))
			return nil, nil, err
		}
		logger.Info("kv: redis", zap.String("namespace", cfg.RedisNamespace))
		return redis.New(client, cfg.RedisNamespace, logger), func() { _ = client.Close() }, nil
	case cfg.MySQLDSN != "":
		sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Error("mysql open failed", zap.Error(err))
			return nil, nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			logger.Error("mysql ping failed", zap.Error(err))
			return nil, nil, err
		}
		logger.Info("kv: mysql")
		return mysql.New(db.New(sqlDB), logger), func() { _ = sqlDB.Close() }, nil
	default:
		logger.Info("kv: in-memory")
		return memory.NewKV(), func() {}, nil
	}
}
