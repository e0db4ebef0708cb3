package models

import "time"

// Lead links a checkout session started on the landing page to an email.
// Paid flips to true once a verified capture references the session.
type Lead struct {
	SessionID string    `gorm:"column:session_id;type:text;primaryKey" json:"sessionId"`
	Email     string    `gorm:"column:email;type:text;not null;index" json:"email"`
	Paid      bool      `gorm:"column:paid;not null;default:false" json:"paid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Lead) TableName() string { return "leads" }
