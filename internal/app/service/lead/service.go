package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/logctx"
)

var (
	ErrMissingFields = errors.New("missing sessionId or email")
	ErrLeadNotFound  = errors.New("lead not found")
)

type CreateLeadRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Email     string `json:"email" validate:"required"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	validate *validator.Validate
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, validate: validator.New()}
}

// UpsertLead stores the session/email pair. A returning visitor restarting the
// checkout only updates the email; the paid flag is never reset here.
func (s *Service) UpsertLead(ctx context.Context, req *CreateLeadRequest) (*models.Lead, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrMissingFields
	}

	l := &models.Lead{SessionID: req.SessionID, Email: req.Email}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email"}),
		}).
		Create(l).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert lead: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("lead_upserted", "session_id", req.SessionID)
	return l, nil
}

// MarkPaid flags the lead of sessionID as paid, falling back to every lead
// registered with email when the session is unknown or empty.
func (s *Service) MarkPaid(ctx context.Context, sessionID, email string) error {
	q := s.db.WithContext(ctx).Model(&models.Lead{})
	if sessionID != "" {
		res := q.Where("session_id = ?", sessionID).Update("paid", true)
		if res.Error != nil {
			return fmt.Errorf("failed to mark lead %s paid: %w", sessionID, res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}
	if email == "" {
		return ErrLeadNotFound
	}
	res := s.db.WithContext(ctx).Model(&models.Lead{}).Where("email = ?", email).Update("paid", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark leads of %s paid: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (s *Service) GetLead(ctx context.Context, sessionID string) (*models.Lead, error) {
	var l models.Lead
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
