package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	nh "github.com/fatflowers/sololvlup/internal/app/service/notification_handler"
	"github.com/fatflowers/sololvlup/pkg/logctx"
)

const maxWebhookBodyBytes = 1 << 20

// @Summary      PayPal Webhook
// @Description  Receives PayPal webhook events. Only PAYMENT.CAPTURE.COMPLETED is acted upon; the capture is re-fetched from PayPal before it is recorded.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body handlers.PayPalWebhookEvent true "PayPal webhook event"
// @Success      200  {object}  handlers.RespWebhookSuccess
// @Failure      400  {object}  handlers.RespError
// @Failure      405  {object}  handlers.RespError
// @Failure      500  {object}  handlers.RespError
// @Router       /api/paypal-webhook [post]
func ApiPayPalWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logctx.FromGin(c, h.Logger)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
		body, err := c.GetRawData()
		if err != nil {
			lg.Warnw("webhook_paypal_read_failed", "error", err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}
		lg.Infow("webhook_paypal_received", "bytes", len(body))

		res, err := h.HandlePayPal(c.Request.Context(), body)
		if err != nil {
			status, msg := webhookErrorResponse(err)
			lg.Warnw("webhook_paypal_refused", "status", status, "error", err.Error())
			c.JSON(status, gin.H{"error": msg})
			return
		}
		if res.Outcome == nh.OutcomeIgnored {
			c.JSON(http.StatusOK, gin.H{"status": "ignored", "type": res.EventType})
			return
		}
		lg.Infow("webhook_paypal_handled", "outcome", res.Outcome, "capture_id", res.CaptureID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func webhookErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, nh.ErrMalformedEvent):
		return http.StatusBadRequest, "Invalid webhook payload"
	case errors.Is(err, nh.ErrCaptureNotCompleted):
		return http.StatusBadRequest, "Capture not completed"
	case errors.Is(err, nh.ErrCaptureUnverifiable):
		return http.StatusBadRequest, "Capture could not be verified"
	default:
		return http.StatusInternalServerError, "Webhook processing failed"
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *nh.NotificationHandler) {
	// Mount under provided group, expected at "/api"
	r.POST("/paypal-webhook", ApiPayPalWebhook(h))
}
