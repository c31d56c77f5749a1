package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	StaticDir string `yaml:"static_dir" json:"static_dir"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type BackupConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Cron    string `yaml:"cron" json:"cron"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
	Backup   BackupConfig `yaml:"backup" json:"backup"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "stockpile",
		Location: "Asia/Shanghai",
		Workdir:  "/var/stockpile",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1978,
	},
	Database: DBConfig{
		Type:   "bolt",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "stockpile",
		User:   "postgres",
		Passwd: "",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stockpile/stockpile.log",
	},
	Backup: BackupConfig{
		Enabled: false,
		Cron:    "@daily",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		f(v)
	}
}

func setEnvBoolValue(name string, val *bool) {
	setEnvValue(name, func(v string) {
		*val = v == "true" || v == "1" || v == "on"
	})
}

func setEnvIntValue(name string, val *int) {
	setEnvValue(name, func(v string) {
		*val = cast.ToInt(v)
	})
}

// LoadConfig reads a YAML configuration file and merges environment
// variable overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("STOCKPILE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOCKPILE_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("STOCKPILE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOCKPILE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("STOCKPILE_WEB_PORT", &cfg.Web.Port)

	setEnvValue("STOCKPILE_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("STOCKPILE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("STOCKPILE_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOCKPILE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STOCKPILE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STOCKPILE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvBoolValue("STOCKPILE_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOCKPILE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("STOCKPILE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("STOCKPILE_LOGGER_FILENAME", func(v string) { cfg.Logger.Filename = v })

	return cfg
}

// InitDirs creates the working directory layout.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "backup"), 0o755)
}
