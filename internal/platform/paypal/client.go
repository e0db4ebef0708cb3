package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/sololvlup/pkg/config"
	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/metrics"
)

const (
	OpToken   = "token"
	OpCapture = "capture"
	OpOrder   = "order"

	maxResponseBytes = 1 << 20
	// tokenExpirySkew keeps cached tokens from being used right at expiry.
	tokenExpirySkew = 60 * time.Second
)

var ErrEmptyAccessToken = errors.New("paypal token: empty access_token")

// Client talks to the PayPal REST API with client-credentials auth.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	cache        TokenCache
	log          *zap.SugaredLogger
}

// NewClient builds a client from config. cache may be nil, in which case a
// fresh token is fetched for every call.
func NewClient(cfg *cfgpkg.Config, cache TokenCache, log *zap.SugaredLogger) *Client {
	timeout := cfg.PayPal.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      cfg.PayPal.BaseURL(),
		clientID:     cfg.PayPal.ClientID,
		clientSecret: cfg.PayPal.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		cache:        cache,
		log:          log,
	}
}

// AccessToken returns a bearer token for the configured credentials.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	key := cacheKey(c.clientID, c.clientSecret)
	if c.cache != nil {
		tok, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			logctx.FromCtx(ctx, c.log).Warnw("paypal_token_cache_get_failed", "error", err.Error())
		} else if ok {
			return tok, nil
		}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paypal token: build request: %w", err)
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var out tokenResponse
	if err := c.do(req, OpToken, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrEmptyAccessToken
	}

	if c.cache != nil {
		if ttl := time.Duration(out.ExpiresIn)*time.Second - tokenExpirySkew; ttl > 0 {
			if err := c.cache.Set(ctx, key, out.AccessToken, ttl); err != nil {
				logctx.FromCtx(ctx, c.log).Warnw("paypal_token_cache_set_failed", "error", err.Error())
			}
		}
	}
	return out.AccessToken, nil
}

// GetCapture fetches the authoritative state of a capture.
func (c *Client) GetCapture(ctx context.Context, captureID string) (*Capture, error) {
	var out Capture
	if err := c.getJSON(ctx, OpCapture, "/v2/payments/captures/"+url.PathEscape(captureID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder fetches a checkout order, used to recover the payer email.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.getJSON(ctx, OpOrder, "/v2/checkout/orders/"+url.PathEscape(orderID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("paypal %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObservePayPalCall(op, "error", start)
		return fmt.Errorf("paypal %s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.ObservePayPalCall(op, strconv.Itoa(resp.StatusCode), start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("paypal %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logctx.FromCtx(req.Context(), c.log).Warnw("paypal_call_failed", "op", op, "status", resp.StatusCode)
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("paypal %s: decode body: %w", op, err)
	}
	return nil
}
