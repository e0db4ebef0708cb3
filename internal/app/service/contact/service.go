package contact

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/logctx"
)

// CreateContactRequest is the landing page contact form.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ValidationError names the first form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

var fieldMessages = map[string]map[string]string{
	"name":    {"required": "Name is required"},
	"email":   {"required": "Email is required", "email": "Valid email is required"},
	"message": {"required": "Message is required"},
}

type Service struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	validate *validator.Validate
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Service{db: db, log: log, validate: v}
}

// Validate trims the request in place and reports the first invalid field.
func (s *Service) Validate(req *CreateContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg := fieldMessages[fe.Field()][fe.Tag()]
	if msg == "" {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

func (s *Service) CreateContact(ctx context.Context, req *CreateContactRequest) (*models.Contact, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}
	c := &models.Contact{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("contact_created", "contact_id", c.ID)
	return c, nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
