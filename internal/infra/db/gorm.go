package db

import (
	"fmt"
	"time"

	"ecommerce/internal/config"
	"ecommerce/internal/domain/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		// 一意制約違反などを gorm.ErrDuplicatedKey に変換
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg)),
	}

	switch cfg.DBDriver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, gcfg)
	case "postgres", "":
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.DBDriver)
	}
}

// OpenSQLite はローカル開発・テスト用。":memory:" も可
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		}
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqliteは書き込みが1本なので接続も1本
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate はテーブルを作成・更新する
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database migrated", zap.Int("models", len(model.All())))
	return nil
}

func gormLogLevel(cfg config.Config) gormlogger.LogLevel {
	if cfg.GoEnv == "dev" && cfg.LogLevel == "debug" {
		return gormlogger.Info
	}
	if cfg.IsProd() {
		return gormlogger.Error
	}
	return gormlogger.Warn
}
