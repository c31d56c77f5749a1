package app

import (
	"context"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockpile/config"
	"github.com/talkincode/stockpile/internal/domain"
	"github.com/talkincode/stockpile/internal/importer"
	"github.com/talkincode/stockpile/internal/schema"
	"github.com/talkincode/stockpile/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig   *config.AppConfig
	gormDB      *gorm.DB
	recordStore store.RecordStore
	registry    *schema.Registry
	importer    *importer.Importer
	bus         EventBus.Bus
	sched       *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider    = (*Application)(nil)
	_ RegistryProvider = (*Application)(nil)
	_ ImporterProvider = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.RecordStore {
	return a.recordStore
}

func (a *Application) Registry() *schema.Registry {
	return a.registry
}

func (a *Application) Importer() *importer.Importer {
	return a.importer
}

// OverrideStore replaces the application's record store (used in tests).
func (a *Application) OverrideStore(s store.RecordStore) {
	a.recordStore = s
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	cfg.InitDirs()

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Open the record store
	if cfg.Database.Type == "" {
		cfg.Database.Type = "bolt"
	}
	switch cfg.Database.Type {
	case "postgres":
		a.gormDB = getDatabase(cfg.Database)
		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
		a.recordStore = store.NewGormStore(a.gormDB)
	default:
		boltPath := filepath.Join(cfg.System.Workdir, "data", "stockpile.db")
		bs, err := store.NewBoltStore(boltPath)
		if err != nil {
			return err
		}
		a.recordStore = bs
	}
	zap.S().Infof("record store ready, type: %s", cfg.Database.Type)

	// Load the schema registry from persisted dynamic fields
	a.registry = schema.NewRegistry(a.recordStore)
	if err := a.registry.Load(context.Background()); err != nil {
		return err
	}

	a.importer = importer.New(a.registry, a.recordStore)

	a.bus = EventBus.New()
	a.initEvents()
	a.initJob()
	return nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if err2, ok := err1.(error); ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if a.gormDB == nil {
		return nil
	}
	if track {
		return a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...)
	}
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

// InitDb drops and recreates the relational tables.
func (a *Application) InitDb() {
	if a.gormDB == nil {
		zap.S().Warn("initdb is only meaningful for the relational store")
		return
	}
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
	}
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.recordStore != nil {
		_ = a.recordStore.Close()
	}
	_ = zap.L().Sync()
}
