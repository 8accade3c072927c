package feishu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"docsync/internal/domain"
)

const (
	SourceID     = "feishu"
	tokenLeeway  = 10 * time.Minute
	tokenPath    = "/auth/v3/app_access_token/internal"
	userAgent    = "docsync/1.0"
	pageSizeList = "100"
)

// Config holds Feishu client configuration.
type Config struct {
	AppID           string
	AppSecret       string
	BaseURL         string
	Timeout         time.Duration
	DownloadTimeout time.Duration
	FolderCacheTTL  time.Duration
	PageInterval    time.Duration
	MaxRetries      int
	InitialBackoff  time.Duration
}

// Client talks to the Feishu open platform. Token and folder caches are
// per-instance and safe for concurrent use.
type Client struct {
	http         *resty.Client
	download     *resty.Client
	appID        string
	appSecret    string
	maxRetries   int
	backoff      time.Duration
	pageInterval time.Duration
	logger       *slog.Logger
	now          func() time.Time

	tokenMu        sync.RWMutex
	token          string
	tokenExpiresAt time.Time

	folderMu       sync.RWMutex
	folderCache    map[folderCacheKey]folderCacheEntry
	folderCacheTTL time.Duration
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Content-Type", "application/json; charset=utf-8"),
		download: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.DownloadTimeout).
			SetHeader("User-Agent", userAgent),
		appID:          cfg.AppID,
		appSecret:      cfg.AppSecret,
		maxRetries:     cfg.MaxRetries,
		backoff:        cfg.InitialBackoff,
		pageInterval:   cfg.PageInterval,
		logger:         logger.With("source", SourceID),
		now:            time.Now,
		folderCache:    make(map[folderCacheKey]folderCacheEntry),
		folderCacheTTL: cfg.FolderCacheTTL,
	}
}

// Authenticate returns a cached app access token, refreshing it shortly
// before the platform-stated expiry.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	token, expiresAt := c.token, c.tokenExpiresAt
	c.tokenMu.RUnlock()
	if token != "" && c.now().Before(expiresAt.Add(-tokenLeeway)) {
		return token, nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiresAt.Add(-tokenLeeway)) {
		return c.token, nil
	}

	if c.appID == "" || c.appSecret == "" {
		return "", fmt.Errorf("%w: feishu app credentials", domain.ErrConfigMissing)
	}

	var out tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"app_id": c.appID, "app_secret": c.appSecret}).
		Post(tokenPath)
	if err != nil {
		return "", fmt.Errorf("%w: request app token: %w", domain.ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return "", fmt.Errorf("%w: app token status %d", domain.ErrAuthenticationFailed, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode app token: %w", domain.ErrUpstream, err)
	}
	if out.Code != 0 || out.AppAccessToken == "" {
		return "", fmt.Errorf("%w: app token code %d: %s", domain.ErrAuthenticationFailed, out.Code, out.Msg)
	}

	c.token = out.AppAccessToken
	c.tokenExpiresAt = c.now().Add(time.Duration(out.Expire) * time.Second)
	c.logger.Debug("refreshed app access token", "expires_at", c.tokenExpiresAt)

	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenExpiresAt = time.Time{}
	c.tokenMu.Unlock()
}

// request performs an authenticated JSON call and decodes the envelope's data
// into out. Rate-limited calls are retried with exponential backoff.
func (c *Client) request(ctx context.Context, method, path string, callback func(req *resty.Request), out any) error {
	return c.withRateLimitRetry(ctx, method+" "+path, func() error {
		resp, err := c.execute(ctx, c.http, method, path, callback)
		if err != nil {
			return err
		}

		var env apiResponse
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, path, err)
		}
		if env.Code != 0 {
			return fmt.Errorf("%w: %s: code %d: %s", classifyCode(env.Code), path, env.Code, env.Msg)
		}
		if out == nil || len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode %s data: %w", domain.ErrUpstream, path, err)
		}
		return nil
	})
}

// execute sends one authenticated request. A 401 drops the cached token and
// is retried once with a fresh one.
func (c *Client) execute(ctx context.Context, rc *resty.Client, method, path string, callback func(req *resty.Request)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.Authenticate(ctx)
		if err != nil {
			return nil, err
		}

		req := rc.R().SetContext(ctx).SetAuthToken(token)
		if callback != nil {
			callback(req)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, err)
		}

		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			c.logger.Warn("token rejected, refreshing", "path", path)
			c.invalidateToken()
			continue
		}

		if err := statusError(resp, path); err != nil {
			return nil, err
		}
		return resp, nil
	}
}

func (c *Client) withRateLimitRetry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrRateLimitExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("rate limited, backing off", "op", op, "attempt", n+1, "error", err)
		}),
	)
}

func statusError(resp *resty.Response, path string) error {
	code := resp.StatusCode()
	if code < http.StatusBadRequest {
		return nil
	}

	// The platform reports most failures as a coded envelope; prefer that.
	var env apiResponse
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Code != 0 {
		kind := classifyCode(env.Code)
		if kind == domain.ErrUpstream {
			kind = classifyStatus(code)
		}
		return fmt.Errorf("%w: %s: status %d code %d: %s", kind, path, code, env.Code, env.Msg)
	}

	return fmt.Errorf("%w: %s: status %d", classifyStatus(code), path, code)
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return domain.ErrAuthenticationFailed
	case http.StatusForbidden:
		return domain.ErrPermissionDenied
	case http.StatusNotFound:
		return domain.ErrResourceNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimitExceeded
	default:
		return domain.ErrUpstream
	}
}

func classifyCode(code int) error {
	switch code {
	case 99991661, 99991663, 99991664, 99991668, 99991671:
		return domain.ErrAuthenticationFailed
	case 1770032, 91403, 1061004, 1254302, 131006, 99991672:
		return domain.ErrPermissionDenied
	case 1770002, 91402, 1061007, 1254043, 131005:
		return domain.ErrResourceNotFound
	case 99991400, 1770026:
		return domain.ErrRateLimitExceeded
	default:
		return domain.ErrUpstream
	}
}
