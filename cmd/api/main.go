package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "fieldops-backend/internal/adapter/http"
	"fieldops-backend/internal/adapter/middleware"
	"fieldops-backend/internal/adapter/repository/gormstore"
	"fieldops-backend/internal/config"
	"fieldops-backend/internal/domain/photo"
	"fieldops-backend/internal/domain/uow"
	"fieldops-backend/internal/infrastructure/cache"
	"fieldops-backend/internal/infrastructure/db"
	"fieldops-backend/internal/infrastructure/storage"
	ucMasterdata "fieldops-backend/internal/usecase/masterdata"
	ucSubmission "fieldops-backend/internal/usecase/submission"
	"fieldops-backend/pkg/logger"
)

const photoRoute = "/photos"

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPath: cfg.LogOutput})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg, zl)
	if err != nil {
		zl.Fatal("database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := gormstore.Migrate(gdb); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zl.Warn("redis unavailable, idempotency disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	photos, serveLocal, err := photoStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("photo store", zap.Error(err))
	}

	repos := uow.Repos{
		WorkOrders:  gormstore.NewWorkOrderRepository(gdb),
		LineItems:   gormstore.NewLineItemRepository(gdb),
		Submissions: gormstore.NewSubmissionRepository(gdb),
	}
	subs := ucSubmission.NewUsecase(repos, gormstore.NewGormUoW(gdb), photos, zl.Named("submission"))
	md := ucMasterdata.NewUsecase(repos.WorkOrders, repos.LineItems, zl.Named("masterdata"))

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(middleware.RequestID(), middleware.RequestLogger(zl.Named("http")))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dK", 10*cfg.PhotoMaxBytes/1024)))
	if cfg.JWTSecret != "" {
		e.Use(middleware.JWTIdentity([]byte(cfg.JWTSecret), "/health", photoRoute))
	}
	if rdb != nil {
		e.Use(middleware.Idempotency(rdb, cfg.IdempotencyTTL(), zl.Named("idempotency")))
	}

	httpadp.Register(e,
		httpadp.NewHandler(healthChecks(gdb, rdb)),
		httpadp.NewSubmissionHandler(subs, zl),
		httpadp.NewMasterDataHandler(md, zl),
	)
	if serveLocal {
		e.Static(photoRoute, cfg.PhotoLocalDir)
	}

	go func() {
		addr := ":" + cfg.AppPort
		zl.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zl.Info("stopped")
}

// photoStore prefers MinIO; without an endpoint photos go to local disk and
// serveLocal asks the caller to expose them.
func photoStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (store photo.Store, serveLocal bool, err error) {
	if cfg.MinioEndpoint == "" {
		zl.Info("photos on local disk", zap.String("dir", cfg.PhotoLocalDir))
		return storage.NewLocalStore(cfg.PhotoLocalDir, photoRoute, cfg.PhotoMaxBytes, zl.Named("photos")), true, nil
	}
	ms, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
		MaxBytes:  cfg.PhotoMaxBytes,
	}, zl.Named("photos"))
	if err != nil {
		return nil, false, err
	}
	if err := ms.EnsureBucket(ctx); err != nil {
		return nil, false, err
	}
	return ms, false, nil
}

func healthChecks(gdb *gorm.DB, rdb *redis.Client) map[string]httpadp.Checker {
	checks := map[string]httpadp.Checker{
		"db": func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
