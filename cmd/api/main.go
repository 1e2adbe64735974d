package main

import (
	"context"
	"log"
	"time"

	"ecommerce/internal/config"
	"ecommerce/internal/event"
	"ecommerce/internal/infra/db"
	"ecommerce/internal/infra/notify"
	"ecommerce/internal/infra/storage"
	"ecommerce/internal/logger"
	"ecommerce/internal/server"
	"ecommerce/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB, zlog); err != nil {
		zlog.Fatal("db migrate failed", zap.Error(err))
	}

	//注文作成の通知
	publisher := event.NewOrderCreatedPublisher(zlog)
	publisher.Register(event.NewLogListener(zlog))
	if cfg.RedisAddr != "" {
		rdb := notify.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unreachable, order events will be logged only", zap.Error(err))
		} else {
			publisher.Register(notify.NewRedisOrderListener(rdb))
		}
		cancel()
	}

	//画像保存先
	var imageStorage usecase.ImageStorage
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL)
		if err != nil {
			zlog.Fatal("cloudinary init failed", zap.Error(err))
		}
		imageStorage = cld
	} else {
		local, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
		if err != nil {
			zlog.Fatal("media dir init failed", zap.Error(err))
		}
		imageStorage = local
	}

	e := server.Build(server.Deps{
		Config:     cfg,
		Log:        zlog,
		DB:         gormDB,
		Storage:    imageStorage,
		Publisher:  publisher,
		BcryptCost: 12,
	})
	if cfg.CloudinaryURL == "" {
		server.ServeMedia(e, cfg.MediaURL, cfg.MediaRoot)
	}

	if err := server.Start(e, cfg.Addr(), zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
