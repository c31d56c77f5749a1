package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockpile/internal/exporter"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if a.appConfig.Backup.Enabled {
		spec := a.appConfig.Backup.Cron
		if spec == "" {
			spec = "@daily"
		}
		_, err = a.sched.AddFunc(spec, func() {
			a.SchedBackupTask()
		})
		if err != nil {
			zap.S().Errorf("init backup job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedClearExpireData purges audit log entries older than one year.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	err := a.recordStore.PurgeOpsLog(context.Background(),
		time.Now().Add(-time.Hour*24*365))
	if err != nil {
		zap.L().Error("failed to purge ops log", zap.Error(err))
	}
}

// SchedBackupTask writes a JSON snapshot of the whole record set into
// the workdir backup directory.
func (a *Application) SchedBackupTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	records, err := a.recordStore.List(context.Background())
	if err != nil {
		zap.L().Error("backup snapshot failed to read records", zap.Error(err))
		return
	}
	payload, err := exporter.Export(records, exporter.FormatJSON)
	if err != nil {
		zap.L().Error("backup snapshot failed to render", zap.Error(err))
		return
	}

	target := filepath.Join(a.appConfig.System.Workdir, "backup", payload.Filename)
	if err := os.WriteFile(target, payload.Data, 0o644); err != nil {
		zap.L().Error("backup snapshot failed to write", zap.String("file", target), zap.Error(err))
		return
	}
	zap.L().Info("backup snapshot written",
		zap.String("file", target),
		zap.Int("records", len(records)))
}
