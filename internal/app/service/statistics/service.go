package statistics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/types"
)

type StatisticType string

const (
	StatisticTypeDailyPaymentCount   StatisticType = "daily_payment_count"
	StatisticTypeDailyGross          StatisticType = "daily_gross"
	StatisticTypeTotalGross          StatisticType = "total_gross"
	StatisticTypeDailyWebhookOutcome StatisticType = "daily_webhook_outcome"
	StatisticTypeLeadConversion      StatisticType = "lead_conversion"
)

var ErrInvalidStatisticRequest = errors.New("invalid statistic request")

// Filters apply to the payments table only.
var paymentFilterColumns = []string{"provider", "currency", "status", "payer_email", "created_at"}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

func (r *StatisticRequest) validate() error {
	if r == nil || len(r.DataItems) == 0 {
		return fmt.Errorf("%w: no data items", ErrInvalidStatisticRequest)
	}
	if lo.Contains(r.DataItems, nil) {
		return fmt.Errorf("%w: nil data item", ErrInvalidStatisticRequest)
	}
	for _, f := range r.Filters {
		if f == nil {
			return fmt.Errorf("%w: nil filter", ErrInvalidStatisticRequest)
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStatisticRequest, err)
		}
		if bad, ok := lo.Find(f.Fields(), func(c string) bool { return !lo.Contains(paymentFilterColumns, c) }); ok {
			return fmt.Errorf("%w: unsupported field %q", ErrInvalidStatisticRequest, bad)
		}
	}
	return nil
}

// Build ANDs the payment filters.
func (r *StatisticRequest) Build(builder clause.Builder) {
	if len(r.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(r.Filters))
	for _, f := range r.Filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type StatisticResponseDataItem struct {
	Date  string  `json:"date,omitempty"`
	Label string  `json:"label,omitempty"`
	Value int64   `json:"value"`
	Gross float64 `json:"gross,omitempty"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics over payments, webhook deliveries and leads.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// dayExpr renders created_at as YYYY-MM-DD for the connected dialect.
func (s *Service) dayExpr() string {
	if s.db.Dialector.Name() == "sqlite" {
		return "substr(created_at, 1, 10)"
	}
	return "TO_CHAR(created_at, 'YYYY-MM-DD')"
}

func (s *Service) payments(ctx context.Context, request *StatisticRequest) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Payment{}).
		Where(clause.Where{Exprs: []clause.Expression{request}})
}

func (s *Service) getDailyPaymentCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	err := s.payments(ctx, request).
		Select(day + " as date, count(*) as value").
		Group(day).
		Order("date").
		Find(&results).Error
	return results, err
}

func (s *Service) getDailyGross(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	err := s.payments(ctx, request).
		Select(day + " as date, currency as label, count(*) as value, sum(CAST(amount AS NUMERIC)) as gross").
		Group(day).
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Order("label").
		Find(&results).Error
	return results, err
}

func (s *Service) getTotalGross(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.payments(ctx, request).
		Select("currency as label, count(*) as value, sum(CAST(amount AS NUMERIC)) as gross").
		Group("currency").
		Order("label").
		Find(&results).Error
	return results, err
}

func (s *Service) getDailyWebhookOutcome(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	err := s.db.WithContext(ctx).Model(&models.PaymentNotificationLog{}).
		Select(day + " as date, status as label, count(*) as value").
		Group(day).
		Group("status").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Order("label").
		Find(&results).Error
	return results, err
}

func (s *Service) getLeadConversion(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var total, paid int64
	if err := s.db.WithContext(ctx).Model(&models.Lead{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Lead{}).Where("paid = ?", true).Count(&paid).Error; err != nil {
		return nil, err
	}
	return []StatisticResponseDataItem{
		{Label: "leads", Value: total},
		{Label: "paid", Value: paid},
	}, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, request)
	case StatisticTypeDailyGross:
		return s.getDailyGross(ctx, request)
	case StatisticTypeTotalGross:
		return s.getTotalGross(ctx, request)
	case StatisticTypeDailyWebhookOutcome:
		return s.getDailyWebhookOutcome(ctx, request)
	case StatisticTypeLeadConversion:
		return s.getLeadConversion(ctx, request)
	default:
		return nil, fmt.Errorf("%w: invalid data item id: %s", ErrInvalidStatisticRequest, dataItem.ID)
	}
}

// GetPaymentStatistic computes the requested data items concurrently.
func (s *Service) GetPaymentStatistic(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)
	if err, ok := <-errChan; ok {
		logctx.FromCtx(ctx, s.log).Errorw("statistic_failed", "error", err.Error())
		return nil, err
	}

	results := make(map[StatisticType][]StatisticResponseDataItem, len(request.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &StatisticResponse{DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
