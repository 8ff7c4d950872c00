package app

import (
	"database/sql"

	"go-biotime/internal/attendance"
	"go-biotime/internal/biometric"
	"go-biotime/internal/bootstrap"
	"go-biotime/internal/config"
	"go-biotime/internal/directory"
	"go-biotime/internal/messaging/kafka"
	"go-biotime/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	templateRepo := biometric.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Core capabilities ---
	if len(cfg.EncryptionKey) == 0 {
		return config.ErrMissingEncryptionKey
	}
	cipher, err := biometric.NewTemplateCipher(cfg.EncryptionKey)
	if err != nil {
		return err
	}
	extractor := biometric.NewHTTPExtractor(cfg.ExtractorURL, cfg.ExtractorTimeout)
	auditLogger := bootstrap.NewStdoutAuditLogger()

	// --- Services ---
	directoryService := directory.NewService(directoryRepo)
	resolver := schedule.NewResolver(scheduleRepo)
	templateStore := biometric.NewStore(db, templateRepo, cipher)
	biometricService := biometric.NewService(templateStore, extractor, directoryService, biometric.MatcherConfig{
		MatchThreshold:    cfg.MatchThreshold,
		LivenessThreshold: cfg.LivenessThreshold,
	})
	attendanceService := attendance.NewService(
		db,
		attendanceRepo,
		resolver,
		biometricService,
		directoryService,
		outboxRepo,
		auditLogger,
		rdb,
		cfg.GracePeriodMinutes,
	)

	// --- Handlers ---
	biometricHandler := biometric.NewHandler(biometricService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		biometric.RegisterRoutes(api, biometricHandler, cfg.JWTSecret)
		attendance.RegisterRoutes(api, attendanceHandler, rdb, cfg.JWTSecret)
	}

	return nil
}
