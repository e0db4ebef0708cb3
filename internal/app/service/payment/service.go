package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/tool"
	types "github.com/fatflowers/sololvlup/pkg/types"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidPayment  = errors.New("invalid payment")
	ErrInvalidFilter   = errors.New("invalid filter")
)

// Columns the admin listing may filter and sort on.
var scanColumns = []string{"provider", "provider_ref", "payer_email", "amount", "currency", "status", "created_at"}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// RecordPayment inserts p unless a row with the same provider_ref exists.
// created is false when the insert was a no-op; the stored row is left untouched.
// The unique index on provider_ref settles concurrent deliveries.
func (s *Service) RecordPayment(ctx context.Context, p *models.Payment) (created bool, err error) {
	if p == nil || p.ProviderRef == "" {
		return false, fmt.Errorf("%w: missing provider_ref", ErrInvalidPayment)
	}
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "provider_ref"}}, DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert payment %s: %w", p.ProviderRef, res.Error)
	}
	created = res.RowsAffected > 0
	logctx.FromCtx(ctx, s.log).Infow("payment_recorded", "provider_ref", p.ProviderRef, "created", created)
	return created, nil
}

func (s *Service) GetByProviderRef(ctx context.Context, providerRef string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).Where("provider_ref = ?", providerRef).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %s: %w", providerRef, err)
	}
	return &p, nil
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated/admin listing with filters
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	for _, f := range req.Filters {
		if f == nil {
			return nil, fmt.Errorf("%w: nil filter", ErrInvalidFilter)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		if bad, ok := lo.Find(f.Fields(), func(c string) bool { return !lo.Contains(scanColumns, c) }); ok {
			return nil, fmt.Errorf("%w: unsupported field %q", ErrInvalidFilter, bad)
		}
	}
	if req.SortBy != "" && !lo.Contains(scanColumns, req.SortBy) {
		return nil, fmt.Errorf("%w: unsupported sort_by %q", ErrInvalidFilter, req.SortBy)
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}
	// count and page queries each start from the filtered statement
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	sortBy := lo.Ternary(req.SortBy == "", "created_at", req.SortBy)
	q := tx.Limit(req.Size).Offset(req.From).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.Payment
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}
