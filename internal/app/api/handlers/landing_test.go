package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/internal/app/service/contact"
	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	models "github.com/fatflowers/sololvlup/internal/models"
	"github.com/fatflowers/sololvlup/internal/platform/db/dbtest"
)

func newLandingRouter(t *testing.T) (*gin.Engine, *gorm.DB, *lead.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := dbtest.New(t)
	log := zap.NewNop().Sugar()
	leads := lead.NewService(gdb, log)

	r := gin.New()
	api := r.Group("/api")
	RegisterContactRoutes(api, contact.NewService(gdb, log), gdb, log)
	RegisterLeadRoutes(api, leads, log)
	RegisterHealthRoutes(r, gdb)
	return r, gdb, leads
}

func TestCreateContact(t *testing.T) {
	r, _, _ := newLandingRouter(t)

	w := postJSON(r, "/api/contact", `{"name":" Ann ","email":"ann@x.com","message":"hi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotZero(t, got.ID)
	require.Equal(t, "Ann", got.Name)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateContact_Validation(t *testing.T) {
	r, _, _ := newLandingRouter(t)

	w := postJSON(r, "/api/contact", `{"name":"Ann","email":"not-an-email","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"message":"Valid email is required","field":"email"}`, w.Body.String())

	w = postJSON(r, "/api/contact", `{"email":"ann@x.com","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"message":"Name is required","field":"name"}`, w.Body.String())
}

func TestCreateContact_StoreFailure(t *testing.T) {
	r, gdb, _ := newLandingRouter(t)
	dbtest.Close(t, gdb)

	w := postJSON(r, "/api/contact", `{"name":"Ann","email":"ann@x.com","message":"hi"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
}

func TestContactStatus(t *testing.T) {
	r, gdb, _ := newLandingRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"API is working"`)

	dbtest.Close(t, gdb)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"status":"error","message":"Database unavailable"}`, w.Body.String())
}

func TestCreateLead(t *testing.T) {
	r, _, leads := newLandingRouter(t)

	w := postJSON(r, "/api/create-lead", `{"sessionId":"sess-1","email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())

	require.NoError(t, leads.MarkPaid(context.Background(), "sess-1", ""))
	w = postJSON(r, "/api/create-lead", `{"sessionId":"sess-1","email":"new@b.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	l, err := leads.GetLead(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, "new@b.com", l.Email)
	require.True(t, l.Paid)
}

func TestCreateLead_MissingFields(t *testing.T) {
	r, _, _ := newLandingRouter(t)

	for _, body := range []string{`{"sessionId":"sess-1"}`, `{"email":"a@b.com"}`, ``} {
		w := postJSON(r, "/api/create-lead", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"error":"Missing sessionId or email"}`, w.Body.String())
	}
}

func TestCreateLead_StoreFailure(t *testing.T) {
	r, gdb, _ := newLandingRouter(t)
	dbtest.Close(t, gdb)

	w := postJSON(r, "/api/create-lead", `{"sessionId":"sess-1","email":"a@b.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Failed to create lead"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r, gdb, _ := newLandingRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok","database":"ok"}}`, w.Body.String())

	dbtest.Close(t, gdb)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"code":0,"message":"ok","data":{"status":"ok","database":"error"}}`, w.Body.String())
}
