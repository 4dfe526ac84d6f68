package app

import (
	"context"
	"time"

	"go-tutorhub/internal/config"
	"go-tutorhub/internal/payslip"
	"go-tutorhub/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates and mounts every module on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	log := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Name,
		cfg.Postgres.Port,
		cfg.Postgres.SSLMode,
		cfg.ConnectRetries,
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info("database migrated")
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var (
		mongoClient *mongo.Client
		mongoDB     *mongo.Database
	)
	if cfg.PayslipStore == config.StoreMongo {
		mongoClient, mongoDB, err = connection.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = payslip.EnsureMongoIndexes(ctx, mongoDB)
		cancel()
		if err != nil {
			_ = connection.DisconnectMongo(mongoClient)
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, err
		}
	}

	cleanup := func() {
		if err := connection.DisconnectMongo(mongoClient); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, mongoDB, redisClient); err != nil {
		cleanup()
		return nil, err
	}

	log.Info("modules registered", zap.String("payslip_store", cfg.PayslipStore))
	return cleanup, nil
}
