package app

import (
	"fmt"
	"time"

	"github.com/talkincode/stockpile/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		zap.S().Fatalf("database connection failed: %v", err)
	}

	sqldb, err := db.DB()
	if err != nil {
		zap.S().Fatalf("database handle unavailable: %v", err)
	}
	sqldb.SetMaxIdleConns(8)
	sqldb.SetMaxOpenConns(64)
	sqldb.SetConnMaxLifetime(time.Hour)
	return db
}
