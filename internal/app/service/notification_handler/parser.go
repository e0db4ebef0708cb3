package notification_handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// EventPaymentCaptureCompleted is the only PayPal event type acted upon.
const EventPaymentCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"

var ErrMalformedEvent = errors.New("malformed webhook event")

// webhookEnvelope is decoded first so that events the service ignores never
// have their resource validated.
type webhookEnvelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

type webhookAmount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type webhookPayer struct {
	EmailAddress string `json:"email_address"`
}

type webhookSupplementaryData struct {
	Payer *struct {
		Email string `json:"email"`
	} `json:"payer"`
	RelatedIDs *struct {
		OrderID string `json:"order_id"`
	} `json:"related_ids"`
}

type captureResource struct {
	ID                string                    `json:"id"`
	Status            string                    `json:"status"`
	CustomID          string                    `json:"custom_id"`
	Amount            *webhookAmount            `json:"amount"`
	Payer             *webhookPayer             `json:"payer"`
	SupplementaryData *webhookSupplementaryData `json:"supplementary_data"`
}

// PayPalNotification holds what a webhook delivery claims. Every field except
// EventType and RawBody is provisional until the capture is re-fetched.
type PayPalNotification struct {
	EventID   string
	EventType string
	CaptureID string
	Amount    string
	Currency  string
	// PayerEmail is resource.payer.email_address, else supplementary_data.payer.email.
	PayerEmail string
	OrderID    string
	CustomID   string
	RawBody    []byte
}

func (n *PayPalNotification) IsCaptureCompleted() bool {
	return n.EventType == EventPaymentCaptureCompleted
}

// ParsePayPalEnvelope decodes the event type. Errors wrap ErrMalformedEvent.
func ParsePayPalEnvelope(body []byte) (*PayPalNotification, *webhookEnvelope, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.EventType == "" {
		return nil, nil, fmt.Errorf("%w: missing event_type", ErrMalformedEvent)
	}
	return &PayPalNotification{EventID: env.ID, EventType: env.EventType, RawBody: body}, &env, nil
}

// ParsePayPalNotification decodes a capture event, including its resource.
func ParsePayPalNotification(body []byte) (*PayPalNotification, error) {
	n, env, err := ParsePayPalEnvelope(body)
	if err != nil {
		return nil, err
	}
	if !n.IsCaptureCompleted() {
		return n, nil
	}
	if err := n.parseCaptureResource(env.Resource); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *PayPalNotification) parseCaptureResource(raw json.RawMessage) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%w: missing resource", ErrMalformedEvent)
	}
	var res captureResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("%w: resource: %v", ErrMalformedEvent, err)
	}
	if res.ID == "" {
		return fmt.Errorf("%w: missing resource.id", ErrMalformedEvent)
	}

	n.CaptureID = res.ID
	n.CustomID = res.CustomID
	if res.Amount != nil {
		n.Amount = res.Amount.Value
		n.Currency = res.Amount.CurrencyCode
	}
	var payerEmail, supplementaryEmail string
	if res.Payer != nil {
		payerEmail = res.Payer.EmailAddress
	}
	if sd := res.SupplementaryData; sd != nil {
		if sd.Payer != nil {
			supplementaryEmail = sd.Payer.Email
		}
		if sd.RelatedIDs != nil {
			n.OrderID = sd.RelatedIDs.OrderID
		}
	}
	n.PayerEmail = lo.CoalesceOrEmpty(payerEmail, supplementaryEmail)
	return nil
}
