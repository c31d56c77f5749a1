package app

import (
	"context"
	"time"

	"github.com/talkincode/stockpile/internal/domain"
	"github.com/talkincode/stockpile/pkg/common"
	"go.uber.org/zap"
)

const evAuditAction = "stockpile.audit.action"

// initEvents wires the audit subscriber: every published mutation is
// appended to the ops log asynchronously so request handlers never wait
// on audit persistence.
func (a *Application) initEvents() {
	err := a.bus.SubscribeAsync(evAuditAction, a.onAuditAction, false)
	if err != nil {
		zap.S().Errorf("subscribe audit events error %s", err.Error())
	}
}

// RecordAction publishes a mutation to the audit trail.
func (a *Application) RecordAction(action, desc string) {
	a.bus.Publish(evAuditAction, action, desc)
}

func (a *Application) onAuditAction(action, desc string) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	entry := domain.InvOpsLog{
		ID:      common.UUIDint64(),
		Action:  action,
		Desc:    desc,
		OptTime: time.Now(),
	}
	if err := a.recordStore.AppendOpsLog(context.Background(), entry); err != nil {
		zap.L().Error("failed to append ops log", zap.String("action", action), zap.Error(err))
		return
	}
	zap.L().Debug("ops log entry recorded",
		zap.String("action", action),
		zap.String("desc", desc))
}
