package app

import (
	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockpile/config"
	"github.com/talkincode/stockpile/internal/importer"
	"github.com/talkincode/stockpile/internal/schema"
	"github.com/talkincode/stockpile/internal/store"
)

// StoreProvider provides record store access
type StoreProvider interface {
	Store() store.RecordStore
}

// RegistryProvider provides schema registry access
type RegistryProvider interface {
	Registry() *schema.Registry
}

// ImporterProvider provides the import pipeline
type ImporterProvider interface {
	Importer() *importer.Importer
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	RegistryProvider
	ImporterProvider
	ConfigProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	// RecordAction publishes a mutation to the audit trail
	RecordAction(action, desc string)
}
