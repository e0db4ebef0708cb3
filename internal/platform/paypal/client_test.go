package paypal

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/sololvlup/pkg/config"
)

type fakePayPal struct {
	tokenCalls atomic.Int32
	captures   map[string]string
	orders     map[string]string
}

func (f *fakePayPal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("cid:secret"))
		if r.Header.Get("Authorization") != want {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("GET /v2/payments/captures/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := f.captures[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("GET /v2/checkout/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := f.orders[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakePayPal, cache TokenCache) *Client {
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	cfg := &cfgpkg.Config{PayPal: cfgpkg.PayPalConfig{ClientID: "cid", ClientSecret: "secret", APIBase: srv.URL}}
	return NewClient(cfg, cache, zap.NewNop().Sugar())
}

type memCache struct {
	mu    sync.Mutex
	items map[string]string
	ttls  map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{items: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = token
	m.ttls[key] = ttl
	return nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func (brokenCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}

func TestGetCapture_FetchesFreshTokenPerCall(t *testing.T) {
	f := &fakePayPal{captures: map[string]string{
		"CAP1": `{"id":"CAP1","status":"COMPLETED","amount":{"value":"2.00","currency_code":"USD"},"custom_id":"sess-1","supplementary_data":{"related_ids":{"order_id":"ORD1"}}}`,
	}}
	c := newTestClient(t, f, nil)

	for i := 0; i < 2; i++ {
		capture, err := c.GetCapture(context.Background(), "CAP1")
		require.NoError(t, err)
		require.True(t, capture.IsCompleted())
		require.Equal(t, "2.00", capture.Amount.Value)
		require.Equal(t, "USD", capture.Amount.CurrencyCode)
		require.Equal(t, "ORD1", capture.OrderID())
		require.Equal(t, "sess-1", capture.CustomID)
		require.Empty(t, capture.PayerEmail())
	}
	require.EqualValues(t, 2, f.tokenCalls.Load())
}

func TestGetCapture_NotFoundIsClientError(t *testing.T) {
	c := newTestClient(t, &fakePayPal{}, nil)

	_, err := c.GetCapture(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.True(t, apiErr.IsClientError())
	require.Equal(t, OpCapture, apiErr.Op)
}

func TestAccessToken_BadCredentials(t *testing.T) {
	f := &fakePayPal{}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	c := NewClient(&cfgpkg.Config{PayPal: cfgpkg.PayPalConfig{ClientID: "cid", ClientSecret: "wrong", APIBase: srv.URL}}, nil, zap.NewNop().Sugar())

	_, err := c.GetCapture(context.Background(), "CAP1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, OpToken, apiErr.Op)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestAccessToken_UsesCache(t *testing.T) {
	f := &fakePayPal{}
	cache := newMemCache()
	c := newTestClient(t, f, cache)

	tok, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	tok, err = c.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)
	require.EqualValues(t, 1, f.tokenCalls.Load())

	key := cacheKey("cid", "secret")
	require.NotContains(t, key, "secret")
	require.Equal(t, 32400*time.Second-tokenExpirySkew, cache.ttls[key])
}

func TestAccessToken_BrokenCacheFallsBackToFetch(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(t, f, brokenCache{})

	tok, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)
	require.EqualValues(t, 1, f.tokenCalls.Load())
}

func TestGetOrder(t *testing.T) {
	f := &fakePayPal{orders: map[string]string{
		"ORD1": `{"id":"ORD1","status":"COMPLETED","payer":{"email_address":"buyer@x.com","payer_id":"P1"},"purchase_units":[{"custom_id":"sess-1"}]}`,
	}}
	c := newTestClient(t, f, nil)

	order, err := c.GetOrder(context.Background(), "ORD1")
	require.NoError(t, err)
	require.Equal(t, "buyer@x.com", order.PayerEmail())

	_, err = c.GetOrder(context.Background(), "ORD2")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.False(t, apiErr.IsClientError())
}

func TestGetCapture_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c := NewClient(&cfgpkg.Config{PayPal: cfgpkg.PayPalConfig{ClientID: "cid", ClientSecret: "secret", APIBase: base, Timeout: time.Second}}, nil, zap.NewNop().Sugar())

	_, err := c.GetCapture(context.Background(), "CAP1")
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}
