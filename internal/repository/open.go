package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/fujishimakensetsu/shiftmaker/internal/config"
	"github.com/fujishimakensetsu/shiftmaker/internal/database"
	apperrors "github.com/fujishimakensetsu/shiftmaker/pkg/errors"
	"github.com/fujishimakensetsu/shiftmaker/pkg/logger"
)

// OpenStore 按配置打开存储后端
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Store.DataDir)

	case config.BackendPostgres:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, apperrors.Storage(err, "连接数据库")
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, apperrors.Storage(err, "初始化数据表")
		}
		return NewPostgresStore(db, db.Close), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		// 确认连接可用
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, apperrors.Storage(err, "连接Redis")
		}
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("Redis连接成功")
		return NewRedisStore(client, cfg.Redis.KeyPrefix), nil

	default:
		return nil, apperrors.InvalidInput("store.backend", cfg.Store.Backend)
	}
}
