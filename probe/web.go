package probe

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// WebChecker probes the availability of a web service with a single GET
// request per check. Build it once and reuse it across checks; retry policy,
// backoff, and alert suppression belong to whatever scheduler drives it.
type WebChecker struct {
	// URL is the absolute target URL. It is not validated here; a URL the
	// client cannot request classifies as a connection failure at check time.
	URL string

	// UserAgent is sent with every request. Empty means the client or its
	// transport decides, which is the case for injected clients.
	UserAgent string

	// Logger, when set, receives an info record for the resolved state of
	// every check and an error record carrying the diagnostic on unhealthy
	// outcomes. Nil disables probe logging.
	Logger *zap.Logger

	client *http.Client
}

var _ Checker = (*WebChecker)(nil)

// NewWebChecker builds a probe for url with a default-timeout client and
// the default user agent.
func NewWebChecker(url string) (*WebChecker, error) {
	return NewWebCheckerWithUserAgent(url, DefaultUserAgent)
}

// NewWebCheckerWithUserAgent builds a probe that identifies itself with the
// given agent string, so operators of the target server can tell who is
// checking them and how to reach the prober's operator. The agent must be a
// valid header value.
func NewWebCheckerWithUserAgent(url, userAgent string) (*WebChecker, error) {
	if err := ValidateUserAgent(userAgent); err != nil {
		return nil, err
	}
	return &WebChecker{
		URL:       url,
		UserAgent: userAgent,
		client:    &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// NewWebCheckerWithClient builds a probe around an already-configured
// client, for custom timeouts, proxies, TLS settings, or test doubles. No
// user agent is forced onto the client's requests. A nil client falls back
// to the default one.
func NewWebCheckerWithClient(url string, client *http.Client) *WebChecker {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &WebChecker{URL: url, client: client}
}

// Check issues one GET request and classifies the outcome: a 2xx status is
// healthy, any other status or a request that could not complete is
// unhealthy with a diagnostic. Check never returns an error; an unreachable
// target is data, not a failure of the probe.
func (c *WebChecker) Check(ctx context.Context) CheckResult {
	log := logOrNop(c.Logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return c.unreachable(log, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.unreachable(log, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Info("target_up", zap.String("url", c.URL))
		return CheckResult{Healthy: true}
	}

	log.Info("target_down", zap.String("url", c.URL))
	log.Error("check_failed",
		zap.String("url", c.URL),
		zap.Int("status", resp.StatusCode),
	)
	return CheckResult{
		Diagnostic: fmt.Sprintf("failed to get %s: status %d", c.URL, resp.StatusCode),
	}
}

func (c *WebChecker) unreachable(log *zap.Logger, err error) CheckResult {
	cause := failureCause(err)
	log.Info("target_down", zap.String("url", c.URL))
	log.Error("check_failed",
		zap.String("url", c.URL),
		zap.String("reason", cause),
		zap.Error(err),
	)
	return CheckResult{
		Diagnostic: fmt.Sprintf("failed to connect to %s: %s", c.URL, cause),
	}
}
