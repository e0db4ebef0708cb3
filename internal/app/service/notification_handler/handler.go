package notification_handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	models "github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/internal/platform/paypal"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/metrics"
	"github.com/fatflowers/sololvlup/pkg/tool"
	types "github.com/fatflowers/sololvlup/pkg/types"
)

var (
	// ErrCaptureNotCompleted means PayPal reports the capture in a state
	// other than COMPLETED, whatever the webhook claimed.
	ErrCaptureNotCompleted = errors.New("capture not completed")
	// ErrCaptureUnverifiable means PayPal refused the lookup (4xx) or the
	// verified capture lacks the fields a payment record needs.
	ErrCaptureUnverifiable = errors.New("capture could not be verified")
	// ErrProviderUnavailable covers transport failures, 5xx answers and
	// token failures. The sender should retry.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

type Outcome string

const (
	OutcomeIgnored      Outcome = "ignored"
	OutcomeRejected     Outcome = "rejected"
	OutcomeVerifyFailed Outcome = "verify_failed"
	OutcomeRecorded     Outcome = "recorded"
	OutcomeDuplicate    Outcome = "duplicate"
	// OutcomeRecordFailed is still answered as success to the sender.
	OutcomeRecordFailed Outcome = "record_failed"
)

// Result describes what one webhook delivery led to.
type Result struct {
	Outcome   Outcome
	EventType string
	CaptureID string
	Payment   *models.Payment
}

// CaptureVerifier is the authoritative source for capture facts.
type CaptureVerifier interface {
	GetCapture(ctx context.Context, captureID string) (*paypal.Capture, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

type PaymentRecorder interface {
	RecordPayment(ctx context.Context, p *models.Payment) (created bool, err error)
}

type EntitlementUnlocker interface {
	MarkPaid(ctx context.Context, sessionID, email string) error
}

type NotificationLogger interface {
	Save(ctx context.Context, entry *models.PaymentNotificationLog)
}

type NotificationHandler struct {
	verifier CaptureVerifier
	recorder PaymentRecorder
	unlocker EntitlementUnlocker
	notifLog NotificationLogger
	Logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewNotificationHandler(verifier CaptureVerifier, recorder PaymentRecorder, unlocker EntitlementUnlocker, notifLog NotificationLogger, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{
		verifier: verifier,
		recorder: recorder,
		unlocker: unlocker,
		notifLog: notifLog,
		Logger:   log,
		now:      time.Now,
	}
}

// HandlePayPal runs one webhook delivery through filter, verify and record.
//
// Only PAYMENT.CAPTURE.COMPLETED events are acted upon; anything else yields
// OutcomeIgnored without touching the store. The capture is re-fetched from
// PayPal and only the verified capture decides status, amount and currency.
// A returned error means the delivery was refused; persistence failures are
// logged and reported through Result.Outcome instead.
func (h *NotificationHandler) HandlePayPal(ctx context.Context, body []byte) (res *Result, resErr error) {
	lg := logctx.FromCtx(ctx, h.Logger)

	n, err := ParsePayPalNotification(body)
	if err != nil {
		lg.Warnw("paypal_webhook_malformed", "error", err.Error())
		metrics.ObserveWebhookOutcome(string(OutcomeRejected))
		return nil, err
	}
	res = &Result{EventType: n.EventType, CaptureID: n.CaptureID}
	if !n.IsCaptureCompleted() {
		res.Outcome = OutcomeIgnored
		lg.Infow("paypal_webhook_ignored", "event_type", n.EventType, "event_id", n.EventID)
		metrics.ObserveWebhookOutcome(string(res.Outcome))
		return res, nil
	}

	lg = lg.With("capture_id", n.CaptureID, "event_id", n.EventID)
	lg.Infow("paypal_webhook_received", "claimed_amount", n.Amount, "claimed_currency", n.Currency)

	defer func() {
		final := res
		if resErr == nil && res.Outcome == "" {
			// panicking
			return
		}
		if resErr != nil {
			final = &Result{EventType: n.EventType, CaptureID: n.CaptureID, Outcome: outcomeOf(resErr)}
		}
		metrics.ObserveWebhookOutcome(string(final.Outcome))
		h.saveLog(ctx, n, final, resErr)
	}()

	capture, err := h.verify(ctx, n.CaptureID)
	if err != nil {
		lg.Warnw("paypal_capture_verify_failed", "error", err.Error())
		return nil, err
	}

	email := h.resolvePayerEmail(ctx, n, capture)
	payment := &models.Payment{
		ID:          tool.GenerateUUIDV7(),
		Provider:    types.PaymentProviderPayPal,
		ProviderRef: n.CaptureID,
		PayerEmail:  lo.EmptyableToPtr(email),
		Amount:      capture.Amount.Value,
		Currency:    capture.Amount.CurrencyCode,
		Status:      types.PaymentStatusCompleted,
		RawEvent:    datatypes.JSON(n.RawBody),
	}
	res.Payment = payment

	created, err := h.recorder.RecordPayment(ctx, payment)
	switch {
	case err != nil:
		res.Outcome = OutcomeRecordFailed
		lg.Errorw("paypal_payment_record_failed", "error", err.Error())
	case created:
		res.Outcome = OutcomeRecorded
	default:
		res.Outcome = OutcomeDuplicate
		lg.Infow("paypal_payment_duplicate")
	}

	h.unlock(ctx, lo.CoalesceOrEmpty(capture.CustomID, n.CustomID), email)
	return res, nil
}

func (h *NotificationHandler) verify(ctx context.Context, captureID string) (*paypal.Capture, error) {
	capture, err := h.verifier.GetCapture(ctx, captureID)
	if err != nil {
		var apiErr *paypal.APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() && apiErr.Op != paypal.OpToken {
			return nil, fmt.Errorf("%w: %v", ErrCaptureUnverifiable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if capture == nil || (capture.ID != "" && capture.ID != captureID) {
		return nil, fmt.Errorf("%w: capture id mismatch", ErrCaptureUnverifiable)
	}
	if !capture.IsCompleted() {
		return nil, fmt.Errorf("%w: status %q", ErrCaptureNotCompleted, capture.Status)
	}
	if capture.Amount == nil || capture.Amount.Value == "" || capture.Amount.CurrencyCode == "" {
		return nil, fmt.Errorf("%w: missing amount", ErrCaptureUnverifiable)
	}
	return capture, nil
}

// resolvePayerEmail walks the fallbacks in order: webhook payer, webhook
// supplementary payer, verified capture payer, then the order payer.
func (h *NotificationHandler) resolvePayerEmail(ctx context.Context, n *PayPalNotification, capture *paypal.Capture) string {
	if email := lo.CoalesceOrEmpty(n.PayerEmail, capture.PayerEmail()); email != "" {
		return email
	}
	orderID := lo.CoalesceOrEmpty(capture.OrderID(), n.OrderID)
	if orderID == "" {
		return ""
	}
	order, err := h.verifier.GetOrder(ctx, orderID)
	if err != nil {
		logctx.FromCtx(ctx, h.Logger).Warnw("paypal_order_lookup_failed", "order_id", orderID, "error", err.Error())
		return ""
	}
	return order.PayerEmail()
}

func (h *NotificationHandler) unlock(ctx context.Context, sessionID, email string) {
	if h.unlocker == nil || (sessionID == "" && email == "") {
		return
	}
	if err := h.unlocker.MarkPaid(ctx, sessionID, email); err != nil {
		logctx.FromCtx(ctx, h.Logger).Warnw("lead_unlock_failed", "session_id", sessionID, "error", err.Error())
	}
}

func (h *NotificationHandler) saveLog(ctx context.Context, n *PayPalNotification, res *Result, resErr error) {
	if h.notifLog == nil {
		return
	}
	resMap := map[string]any{"outcome": res.Outcome}
	if res.Payment != nil {
		resMap["payment_id"] = res.Payment.ID
	}
	status := models.PaymentNotificationLogStatusHandled
	switch {
	case resErr != nil && res.Outcome == OutcomeRejected:
		status = models.PaymentNotificationLogStatusRejected
		resMap["error"] = resErr.Error()
	case resErr != nil:
		status = models.PaymentNotificationLogStatusHandleFailed
		resMap["error"] = resErr.Error()
	case res.Outcome == OutcomeRecordFailed:
		status = models.PaymentNotificationLogStatusHandleFailed
	}
	resBytes, _ := json.Marshal(resMap)
	result := datatypes.JSON(resBytes)

	h.notifLog.Save(ctx, &models.PaymentNotificationLog{
		ProviderID:       string(types.PaymentProviderPayPal),
		TraceID:          logctx.TraceID(ctx),
		EventType:        n.EventType,
		TransactionID:    n.CaptureID,
		NotificationTime: h.now(),
		Data:             datatypes.JSON(n.RawBody),
		Result:           &result,
		Status:           status,
	})
}

func outcomeOf(err error) Outcome {
	if errors.Is(err, ErrProviderUnavailable) {
		return OutcomeVerifyFailed
	}
	return OutcomeRejected
}
