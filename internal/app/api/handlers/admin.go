package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	notificationlog "github.com/fatflowers/sololvlup/internal/app/service/notification_log"
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	"github.com/fatflowers/sololvlup/internal/app/service/statistics"
	models "github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/pkg/response"
)

type PaymentDetail struct {
	Payment       *models.Payment                  `json:"payment"`
	Notifications []*models.PaymentNotificationLog `json:"notifications"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable list of recorded payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body payment.ScanPaymentsRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/payments [post]
func ApiListPayments(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.ScanPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeBadRequest, err))
			return
		}
		res, err := svc.ScanPayments(c.Request.Context(), &req)
		if errors.Is(err, payment.ErrInvalidFilter) {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeBadRequest, err))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeError, err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Payment (Admin)
// @Description  Returns one payment by capture id together with its webhook audit trail.
// @Tags         Admin
// @Produce      json
// @Security     BasicAuth
// @Param        provider_ref path string true "PayPal capture id"
// @Success      200  {object}  handlers.RespPaymentDetail
// @Router       /api/v1/admin/payments/{provider_ref} [get]
func ApiGetPayment(svc *payment.Service, notif *notificationlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("provider_ref")
		p, err := svc.GetByProviderRef(c.Request.Context(), ref)
		if errors.Is(err, payment.ErrPaymentNotFound) {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeNotFound, err))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeError, err))
			return
		}
		logs, err := notif.ListByTransactionID(c.Request.Context(), ref)
		if err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeError, err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&PaymentDetail{Payment: p, Notifications: logs}))
	}
}

// @Summary      Get Payment Statistics (Admin)
// @Description  Daily payment counts and gross per currency, webhook outcomes and lead conversion.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Router       /api/v1/admin/payment_statistic [post]
func ApiGetPaymentStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeBadRequest, err))
			return
		}
		res, err := svc.GetPaymentStatistic(c.Request.Context(), &req)
		if errors.Is(err, statistics.ErrInvalidStatisticRequest) {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeBadRequest, err))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.Err(response.APIResponseCodeError, err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// RegisterAdminPaymentRoutes mounts the admin APIs behind basic auth. Nothing
// is mounted without accounts.
func RegisterAdminPaymentRoutes(r gin.IRouter, accounts map[string]string, svc *payment.Service, notif *notificationlog.Service, stats *statistics.Service) bool {
	if len(accounts) == 0 {
		return false
	}
	g := r.Group("", gin.BasicAuth(gin.Accounts(accounts)))
	g.POST("/payments", ApiListPayments(svc))
	g.GET("/payments/:provider_ref", ApiGetPayment(svc, notif))
	g.POST("/payment_statistic", ApiGetPaymentStatistic(stats))
	return true
}
