package notification_handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	notificationlog "github.com/fatflowers/sololvlup/internal/app/service/notification_log"
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	models "github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/internal/platform/db/dbtest"
	"github.com/fatflowers/sololvlup/internal/platform/paypal"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/metrics"
)

type fakeVerifier struct {
	captures     map[string]*paypal.Capture
	orders       map[string]*paypal.Order
	captureErr   error
	orderErr     error
	captureCalls int
	orderCalls   int
}

func (f *fakeVerifier) GetCapture(_ context.Context, id string) (*paypal.Capture, error) {
	f.captureCalls++
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	c, ok := f.captures[id]
	if !ok {
		return nil, &paypal.APIError{Op: paypal.OpCapture, StatusCode: http.StatusNotFound}
	}
	return c, nil
}

func (f *fakeVerifier) GetOrder(_ context.Context, id string) (*paypal.Order, error) {
	f.orderCalls++
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, &paypal.APIError{Op: paypal.OpOrder, StatusCode: http.StatusNotFound}
	}
	return o, nil
}

type fixture struct {
	db       *gorm.DB
	verifier *fakeVerifier
	payments *payment.Service
	leads    *lead.Service
	notif    *notificationlog.Service
	handler  *NotificationHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	log := zap.NewNop().Sugar()
	f := &fixture{
		db:       gdb,
		verifier: &fakeVerifier{captures: map[string]*paypal.Capture{}, orders: map[string]*paypal.Order{}},
		payments: payment.NewService(gdb, log),
		leads:    lead.NewService(gdb, log),
		notif:    notificationlog.New(gdb, log),
	}
	f.handler = NewNotificationHandler(f.verifier, f.payments, f.leads, f.notif, log)
	return f
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func completedCapture(id, value string) *paypal.Capture {
	return &paypal.Capture{
		ID:     id,
		Status: "COMPLETED",
		Amount: &paypal.Money{Value: value, CurrencyCode: "USD"},
	}
}

const cap1Event = `{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","status":"COMPLETED","amount":{"value":"2.00","currency_code":"USD"},"payer":{"email_address":"a@b.com"}}}`

func TestHandlePayPal_RecordsVerifiedCapture(t *testing.T) {
	ctx := logctx.WithTraceID(context.Background(), "trace-1")
	f := newFixture(t)
	f.verifier.captures["CAP1"] = completedCapture("CAP1", "2.00")

	res, err := f.handler.HandlePayPal(ctx, []byte(cap1Event))
	require.NoError(t, err)
	require.Equal(t, OutcomeRecorded, res.Outcome)
	require.Equal(t, "CAP1", res.CaptureID)

	got, err := f.payments.GetByProviderRef(ctx, "CAP1")
	require.NoError(t, err)
	require.Equal(t, "2.00", got.Amount)
	require.Equal(t, "USD", got.Currency)
	require.NotNil(t, got.PayerEmail)
	require.Equal(t, "a@b.com", *got.PayerEmail)
	require.JSONEq(t, cap1Event, string(got.RawEvent))

	logs, err := f.notif.ListByTransactionID(ctx, "CAP1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, models.PaymentNotificationLogStatusHandled, logs[0].Status)
	require.Equal(t, "trace-1", logs[0].TraceID)
	require.Equal(t, EventPaymentCaptureCompleted, logs[0].EventType)
}

func TestHandlePayPal_RedeliveryIsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.verifier.captures["CAP1"] = completedCapture("CAP1", "2.00")

	res, err := f.handler.HandlePayPal(ctx, []byte(cap1Event))
	require.NoError(t, err)
	require.Equal(t, OutcomeRecorded, res.Outcome)

	res, err = f.handler.HandlePayPal(ctx, []byte(cap1Event))
	require.NoError(t, err)
	require.Equal(t, OutcomeDuplicate, res.Outcome)
	require.EqualValues(t, 1, f.countRows(t, &models.Payment{}))
	require.Equal(t, 2, f.verifier.captureCalls)
}

func TestHandlePayPal_VerifiedFactsOverrideClaims(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.verifier.captures["CAP1"] = &paypal.Capture{
		ID:     "CAP1",
		Status: "COMPLETED",
		Amount: &paypal.Money{Value: "2.00", CurrencyCode: "EUR"},
	}
	body := `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","amount":{"value":"999.00","currency_code":"USD"}}}`

	res, err := f.handler.HandlePayPal(ctx, []byte(body))
	require.NoError(t, err)
	require.Equal(t, "2.00", res.Payment.Amount)
	require.Equal(t, "EUR", res.Payment.Currency)
}

func TestHandlePayPal_IgnoresOtherEventTypes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := testutil.ToFloat64(metrics.WebhookOutcomeCounter(string(OutcomeIgnored)))

	for _, body := range []string{
		`{"event_type":"PAYMENT.CAPTURE.REFUNDED","resource":{"id":"CAP1"}}`,
		`{"event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"ORD1","amount":42}}`,
		`{"event_type":"BILLING.SUBSCRIPTION.CREATED"}`,
	} {
		res, err := f.handler.HandlePayPal(ctx, []byte(body))
		require.NoError(t, err)
		require.Equal(t, OutcomeIgnored, res.Outcome)
	}

	require.Zero(t, f.verifier.captureCalls)
	require.Zero(t, f.countRows(t, &models.Payment{}))
	require.Zero(t, f.countRows(t, &models.PaymentNotificationLog{}))
	require.Equal(t, before+3, testutil.ToFloat64(metrics.WebhookOutcomeCounter(string(OutcomeIgnored))))
}

func TestHandlePayPal_MalformedEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, body := range []string{
		``,
		`not json`,
		`{}`,
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED"}`,
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":null}`,
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"status":"COMPLETED"}}`,
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":42}}`,
	} {
		_, err := f.handler.HandlePayPal(ctx, []byte(body))
		require.ErrorIs(t, err, ErrMalformedEvent, body)
	}
	require.Zero(t, f.verifier.captureCalls)
	require.Zero(t, f.countRows(t, &models.Payment{}))
}

func TestHandlePayPal_RejectsCaptureNotCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	denied := completedCapture("CAP1", "2.00")
	denied.Status = "DENIED"
	f.verifier.captures["CAP1"] = denied

	res, err := f.handler.HandlePayPal(ctx, []byte(cap1Event))
	require.ErrorIs(t, err, ErrCaptureNotCompleted)
	require.Nil(t, res)
	require.Zero(t, f.countRows(t, &models.Payment{}))

	logs, err := f.notif.ListByTransactionID(ctx, "CAP1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, models.PaymentNotificationLogStatusRejected, logs[0].Status)
}

func TestHandlePayPal_CompletedStatusMatchesExactly(t *testing.T) {
	f := newFixture(t)
	c := completedCapture("CAP1", "2.00")
	c.Status = "completed"
	f.verifier.captures["CAP1"] = c

	_, err := f.handler.HandlePayPal(context.Background(), []byte(cap1Event))
	require.ErrorIs(t, err, ErrCaptureNotCompleted)
	require.Zero(t, f.countRows(t, &models.Payment{}))
}

func TestHandlePayPal_UnverifiableCaptures(t *testing.T) {
	cases := []struct {
		name    string
		capture *paypal.Capture
	}{
		{name: "unknown to provider"},
		{name: "missing amount", capture: &paypal.Capture{ID: "CAP1", Status: "COMPLETED"}},
		{name: "id mismatch", capture: completedCapture("CAP2", "2.00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.capture != nil {
				f.verifier.captures["CAP1"] = tc.capture
			}
			_, err := f.handler.HandlePayPal(context.Background(), []byte(cap1Event))
			require.ErrorIs(t, err, ErrCaptureUnverifiable)
			require.Zero(t, f.countRows(t, &models.Payment{}))
		})
	}
}

func TestHandlePayPal_ProviderUnavailable(t *testing.T) {
	cases := map[string]error{
		"transport": errors.New("dial tcp: connection refused"),
		"5xx":       &paypal.APIError{Op: paypal.OpCapture, StatusCode: http.StatusBadGateway},
		"token 401": &paypal.APIError{Op: paypal.OpToken, StatusCode: http.StatusUnauthorized},
	}
	for name, verifyErr := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.verifier.captureErr = verifyErr

			_, err := f.handler.HandlePayPal(ctx, []byte(cap1Event))
			require.ErrorIs(t, err, ErrProviderUnavailable)
			require.Zero(t, f.countRows(t, &models.Payment{}))

			logs, err := f.notif.ListByTransactionID(ctx, "CAP1")
			require.NoError(t, err)
			require.Len(t, logs, 1)
			require.Equal(t, models.PaymentNotificationLogStatusHandleFailed, logs[0].Status)
		})
	}
}

func TestHandlePayPal_PayerEmailFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		capture func(*paypal.Capture)
		orders  map[string]*paypal.Order
		want    *string
	}{
		{
			name: "supplementary payer",
			body: `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","supplementary_data":{"payer":{"email":"supp@x.com"}}}}`,
			want: strPtr("supp@x.com"),
		},
		{
			name:    "verified capture payer",
			body:    `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1"}}`,
			capture: func(c *paypal.Capture) { c.Payer = &paypal.Payer{EmailAddress: "cap@x.com"} },
			want:    strPtr("cap@x.com"),
		},
		{
			name: "order from capture related ids",
			body: `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","supplementary_data":{"related_ids":{"order_id":"ORD-WEBHOOK"}}}}`,
			capture: func(c *paypal.Capture) {
				c.SupplementaryData = &paypal.CaptureSupplementaryData{RelatedIDs: &paypal.RelatedIDs{OrderID: "ORD1"}}
			},
			orders: map[string]*paypal.Order{"ORD1": {ID: "ORD1", Payer: &paypal.Payer{EmailAddress: "order@x.com"}}},
			want:   strPtr("order@x.com"),
		},
		{
			name:   "order from webhook related ids",
			body:   `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","supplementary_data":{"related_ids":{"order_id":"ORD1"}}}}`,
			orders: map[string]*paypal.Order{"ORD1": {ID: "ORD1", Payer: &paypal.Payer{EmailAddress: "order@x.com"}}},
			want:   strPtr("order@x.com"),
		},
		{
			name: "order lookup failure is not fatal",
			body: `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","supplementary_data":{"related_ids":{"order_id":"ORD-GONE"}}}}`,
		},
		{
			name: "no email anywhere",
			body: `{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1"}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			c := completedCapture("CAP1", "2.00")
			if tc.capture != nil {
				tc.capture(c)
			}
			f.verifier.captures["CAP1"] = c
			for id, o := range tc.orders {
				f.verifier.orders[id] = o
			}

			res, err := f.handler.HandlePayPal(ctx, []byte(tc.body))
			require.NoError(t, err)
			require.Equal(t, OutcomeRecorded, res.Outcome)

			got, err := f.payments.GetByProviderRef(ctx, "CAP1")
			require.NoError(t, err)
			require.Equal(t, tc.want, got.PayerEmail)
		})
	}
}

func TestHandlePayPal_WebhookEmailSkipsOrderLookup(t *testing.T) {
	f := newFixture(t)
	c := completedCapture("CAP1", "2.00")
	c.SupplementaryData = &paypal.CaptureSupplementaryData{RelatedIDs: &paypal.RelatedIDs{OrderID: "ORD1"}}
	f.verifier.captures["CAP1"] = c

	_, err := f.handler.HandlePayPal(context.Background(), []byte(cap1Event))
	require.NoError(t, err)
	require.Zero(t, f.verifier.orderCalls)
}

func TestHandlePayPal_StoreOutageStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.verifier.captures["CAP1"] = completedCapture("CAP1", "2.00")
	dbtest.Close(t, f.db)

	res, err := f.handler.HandlePayPal(context.Background(), []byte(cap1Event))
	require.NoError(t, err)
	require.Equal(t, OutcomeRecordFailed, res.Outcome)
}

func TestHandlePayPal_UnlocksLead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.leads.UpsertLead(ctx, &lead.CreateLeadRequest{SessionID: "sess-1", Email: "other@x.com"})
	require.NoError(t, err)
	c := completedCapture("CAP1", "2.00")
	c.CustomID = "sess-1"
	f.verifier.captures["CAP1"] = c

	_, err = f.handler.HandlePayPal(ctx, []byte(cap1Event))
	require.NoError(t, err)

	l, err := f.leads.GetLead(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, l.Paid)
}

func TestHandlePayPal_UnknownLeadIsNotFatal(t *testing.T) {
	f := newFixture(t)
	c := completedCapture("CAP1", "2.00")
	c.CustomID = "sess-unknown"
	f.verifier.captures["CAP1"] = c

	res, err := f.handler.HandlePayPal(context.Background(), []byte(cap1Event))
	require.NoError(t, err)
	require.Equal(t, OutcomeRecorded, res.Outcome)
}

func strPtr(s string) *string { return &s }
