package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/internal/app/service/contact"
	"github.com/fatflowers/sololvlup/pkg/logctx"
)

// @Summary      Submit contact form
// @Tags         Landing
// @Accept       json
// @Produce      json
// @Param        request body contact.CreateContactRequest true "Contact form"
// @Success      201  {object}  models.Contact
// @Failure      400  {object}  handlers.RespFieldError
// @Failure      500  {object}  handlers.RespFieldError
// @Router       /api/contact [post]
func ApiCreateContact(svc *contact.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contact.CreateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		created, err := svc.CreateContact(c.Request.Context(), &req)
		var verr *contact.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message, "field": verr.Field})
		case err != nil:
			logctx.FromGin(c, log).Errorw("contact_create_failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		default:
			c.JSON(http.StatusCreated, created)
		}
	}
}

// @Summary      Contact API status
// @Description  Lets the landing page check that the contact form can be stored.
// @Tags         Landing
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/contact [get]
func ApiContactStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pingDB(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     "API is working",
			"hasDatabase": true,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func RegisterContactRoutes(r gin.IRouter, svc *contact.Service, db *gorm.DB, log *zap.SugaredLogger) {
	r.GET("/contact", ApiContactStatus(db))
	r.POST("/contact", ApiCreateContact(svc, log))
}
