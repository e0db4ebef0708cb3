package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	"github.com/fatflowers/sololvlup/pkg/logctx"
)

// @Summary      Register checkout lead
// @Description  Stores the session/email pair before checkout so a later capture can unlock it.
// @Tags         Landing
// @Accept       json
// @Produce      json
// @Param        request body lead.CreateLeadRequest true "Lead"
// @Success      200  {object}  handlers.RespLeadOK
// @Failure      400  {object}  handlers.RespError
// @Failure      500  {object}  handlers.RespError
// @Router       /api/create-lead [post]
func ApiCreateLead(svc *lead.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lead.CreateLeadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sessionId or email"})
			return
		}
		_, err := svc.UpsertLead(c.Request.Context(), &req)
		switch {
		case errors.Is(err, lead.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sessionId or email"})
		case err != nil:
			logctx.FromGin(c, log).Errorw("lead_create_failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		default:
			c.JSON(http.StatusOK, gin.H{"ok": true})
		}
	}
}

func RegisterLeadRoutes(r gin.IRouter, svc *lead.Service, log *zap.SugaredLogger) {
	r.POST("/create-lead", ApiCreateLead(svc, log))
}
