package notification_handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayPalNotification_Capture(t *testing.T) {
	body := []byte(`{
		"id": "WH-1",
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {
			"id": "CAP1",
			"custom_id": "sess-1",
			"amount": {"value": "2.00", "currency_code": "USD"},
			"supplementary_data": {
				"payer": {"email": "supp@x.com"},
				"related_ids": {"order_id": "ORD1"}
			}
		}
	}`)

	n, err := ParsePayPalNotification(body)
	require.NoError(t, err)
	require.True(t, n.IsCaptureCompleted())
	require.Equal(t, "WH-1", n.EventID)
	require.Equal(t, "CAP1", n.CaptureID)
	require.Equal(t, "2.00", n.Amount)
	require.Equal(t, "USD", n.Currency)
	require.Equal(t, "supp@x.com", n.PayerEmail)
	require.Equal(t, "ORD1", n.OrderID)
	require.Equal(t, "sess-1", n.CustomID)
	require.Equal(t, body, n.RawBody)
}

func TestParsePayPalNotification_PayerEmailWins(t *testing.T) {
	n, err := ParsePayPalNotification([]byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1","payer":{"email_address":"a@b.com"},"supplementary_data":{"payer":{"email":"supp@x.com"}}}}`))
	require.NoError(t, err)
	require.Equal(t, "a@b.com", n.PayerEmail)
}

func TestParsePayPalNotification_OtherTypesSkipResource(t *testing.T) {
	n, err := ParsePayPalNotification([]byte(`{"event_type":"CHECKOUT.ORDER.APPROVED","resource":["unexpected"]}`))
	require.NoError(t, err)
	require.False(t, n.IsCaptureCompleted())
	require.Empty(t, n.CaptureID)
}
