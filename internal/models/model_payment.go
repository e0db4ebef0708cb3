package models

import (
	"time"

	"github.com/fatflowers/sololvlup/pkg/types"
	"gorm.io/datatypes"
)

// Payment is a provider capture that was independently verified as completed.
// Rows are inserted once per ProviderRef and never updated.
type Payment struct {
	ID          string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider    types.PaymentProvider `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	ProviderRef string                `gorm:"column:provider_ref;type:varchar(255);not null;uniqueIndex:unique_payments_provider_ref" json:"provider_ref"`
	PayerEmail  *string               `gorm:"column:payer_email;type:varchar(320)" json:"payer_email"`
	Amount      string                `gorm:"column:amount;type:varchar(32);not null" json:"amount"`
	Currency    string                `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Status      types.PaymentStatus   `gorm:"column:status;type:varchar(32);not null" json:"status"`
	RawEvent    datatypes.JSON        `gorm:"column:raw_event;type:jsonb" json:"raw_event"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime;<-:create" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
