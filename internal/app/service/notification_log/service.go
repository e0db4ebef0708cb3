package notification_log

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save persists a payment notification log. Nil input is ignored and failures
// are only logged: the audit trail never decides a webhook response.
func (s *Service) Save(ctx context.Context, entry *models.PaymentNotificationLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("notification_log_save_failed",
			"transaction_id", entry.TransactionID, "status", entry.Status, "error", err.Error())
	}
}

// ListByTransactionID returns the log entries of one capture, oldest first.
func (s *Service) ListByTransactionID(ctx context.Context, transactionID string) ([]*models.PaymentNotificationLog, error) {
	var rows []*models.PaymentNotificationLog
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}

var Module = fx.Options(
	fx.Provide(New),
)
