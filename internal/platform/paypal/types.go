package paypal

import (
	"fmt"
)

const StatusCompleted = "COMPLETED"

type Money struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type Payer struct {
	PayerID      string `json:"payer_id,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
}

type RelatedIDs struct {
	OrderID string `json:"order_id,omitempty"`
}

type CaptureSupplementaryData struct {
	RelatedIDs *RelatedIDs `json:"related_ids,omitempty"`
}

// Capture is the subset of GET /v2/payments/captures/{id} the service reads.
type Capture struct {
	ID                string                    `json:"id"`
	Status            string                    `json:"status"`
	Amount            *Money                    `json:"amount,omitempty"`
	CustomID          string                    `json:"custom_id,omitempty"`
	InvoiceID         string                    `json:"invoice_id,omitempty"`
	Payer             *Payer                    `json:"payer,omitempty"`
	SupplementaryData *CaptureSupplementaryData `json:"supplementary_data,omitempty"`
	CreateTime        string                    `json:"create_time,omitempty"`
}

func (c *Capture) IsCompleted() bool {
	return c != nil && c.Status == StatusCompleted
}

func (c *Capture) OrderID() string {
	if c == nil || c.SupplementaryData == nil || c.SupplementaryData.RelatedIDs == nil {
		return ""
	}
	return c.SupplementaryData.RelatedIDs.OrderID
}

func (c *Capture) PayerEmail() string {
	if c == nil || c.Payer == nil {
		return ""
	}
	return c.Payer.EmailAddress
}

type PurchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	CustomID    string `json:"custom_id,omitempty"`
	Amount      *Money `json:"amount,omitempty"`
}

// Order is the subset of GET /v2/checkout/orders/{id} the service reads.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Payer         *Payer         `json:"payer,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
}

func (o *Order) PayerEmail() string {
	if o == nil || o.Payer == nil {
		return ""
	}
	return o.Payer.EmailAddress
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// APIError is a non-2xx answer from the PayPal REST API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsClientError reports a 4xx answer: PayPal understood the request and refused it.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
