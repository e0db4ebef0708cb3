package handlers

import (
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	"github.com/fatflowers/sololvlup/internal/app/service/statistics"
	"github.com/fatflowers/sololvlup/pkg/response"
)

// RespError is the plain error body of the public endpoints.
type RespError struct {
	Error string `json:"error" example:"Method not allowed"`
}

// RespFieldError is returned by the contact form.
type RespFieldError struct {
	Message string `json:"message" example:"Valid email is required"`
	Field   string `json:"field,omitempty" example:"email"`
}

type RespWebhookSuccess struct {
	Success bool   `json:"success,omitempty" example:"true"`
	Status  string `json:"status,omitempty" example:"ignored"`
	Type    string `json:"type,omitempty" example:"CHECKOUT.ORDER.APPROVED"`
}

type RespLeadOK struct {
	OK bool `json:"ok" example:"true"`
}

// PayPalWebhookEvent documents the fields of a PayPal webhook that are read.
type PayPalWebhookEvent struct {
	ID        string                `json:"id" example:"WH-2WR32451HC0233532-67976317FL4543714"`
	EventType string                `json:"event_type" example:"PAYMENT.CAPTURE.COMPLETED"`
	Resource  PayPalWebhookResource `json:"resource"`
}

type PayPalWebhookResource struct {
	ID       string `json:"id" example:"42311647XV020574X"`
	Status   string `json:"status" example:"COMPLETED"`
	CustomID string `json:"custom_id" example:"cs_9f2c"`
	Amount   struct {
		Value        string `json:"value" example:"2.00"`
		CurrencyCode string `json:"currency_code" example:"USD"`
	} `json:"amount"`
}

type RespHealth struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    HealthStatus             `json:"data"`
}

// RespListPayments wraps ScanPaymentsResponse in the standard envelope.
type RespListPayments struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    payment.ScanPaymentsResponse `json:"data"`
}

type RespPaymentDetail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    PaymentDetail            `json:"data"`
}

// RespPaymentStatistic wraps StatisticResponse in the standard envelope.
type RespPaymentStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}
