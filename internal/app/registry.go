package app

import (
	"database/sql"

	"go-tutorhub/internal/config"
	"go-tutorhub/internal/messaging/kafka"
	"go-tutorhub/internal/payrate"
	"go-tutorhub/internal/payslip"
	"go-tutorhub/internal/rbac"
	"go-tutorhub/internal/rbac/infra"
	"go-tutorhub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	mongoDB *mongo.Database,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	payRateRepo := payrate.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payslipRepo := newPayslipRepository(cfg, gormDB, mongoDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	userService := user.NewService(userRepo, rdb, logger)
	payRateService := payrate.NewService(db, payRateRepo, logger)
	payslipService := payslip.NewServiceWithDeps(db, payslipRepo, payslip.Dependencies{
		Outbox:    outboxRepo,
		Rates:     payRateService,
		Directory: userService,
	}, logger)

	// --- Handlers ---
	userHandler := user.NewHandler(userService, logger)
	payRateHandler := payrate.NewHandler(payRateService, logger)
	payslipHandler := payslip.NewHandler(payslipService, rbacService, rdb, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler, rbacService, cfg.JWTSecret, logger)
		payrate.RegisterRoutes(api, payRateHandler, rbacService, cfg.JWTSecret)
		payslip.RegisterRoutes(api, payslipHandler, rbacService, rdb, cfg.JWTSecret, logger)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
	}

	return nil
}

func newPayslipRepository(cfg *config.Config, gormDB *gorm.DB, mongoDB *mongo.Database) payslip.Repository {
	if cfg.PayslipStore == config.StoreMongo && mongoDB != nil {
		return payslip.NewMongoRepository(mongoDB)
	}
	return payslip.NewRepository(gormDB)
}
