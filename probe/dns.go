package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// dnsTimeout bounds a lookup when the caller's context carries no deadline.
const dnsTimeout = 3 * time.Second

// DNSChecker probes whether a hostname resolves to at least one address,
// using the operating system resolver.
type DNSChecker struct {
	// Host is the bare hostname to resolve.
	Host string

	// Logger carries the same optional side channel as WebChecker.Logger.
	Logger *zap.Logger

	resolver *net.Resolver
}

var _ Checker = (*DNSChecker)(nil)

// NewDNSChecker builds a probe for target, which may be a bare hostname or
// a URL the hostname is extracted from.
func NewDNSChecker(target string) (*DNSChecker, error) {
	host := extractHost(target)
	if host == "" {
		return nil, &ConfigError{Reason: fmt.Sprintf("no hostname in %q", target)}
	}
	return &DNSChecker{Host: host, resolver: &net.Resolver{}}, nil
}

// Check resolves the hostname once. At least one A or AAAA record is
// healthy; everything else classifies into the diagnostic.
func (c *DNSChecker) Check(ctx context.Context) CheckResult {
	log := logOrNop(c.Logger)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dnsTimeout)
		defer cancel()
	}

	ips, err := c.resolver.LookupIP(ctx, "ip", c.Host)
	if err != nil {
		cause := failureCause(err)
		log.Info("target_down", zap.String("host", c.Host))
		log.Error("check_failed",
			zap.String("host", c.Host),
			zap.String("reason", cause),
			zap.Error(err),
		)
		return CheckResult{
			Diagnostic: fmt.Sprintf("failed to resolve %s: %s", c.Host, cause),
		}
	}
	if len(ips) == 0 {
		log.Info("target_down", zap.String("host", c.Host))
		log.Error("check_failed",
			zap.String("host", c.Host),
			zap.String("reason", "no addresses"),
		)
		return CheckResult{
			Diagnostic: fmt.Sprintf("failed to resolve %s: no addresses", c.Host),
		}
	}

	log.Info("target_up", zap.String("host", c.Host))
	return CheckResult{Healthy: true}
}

// extractHost pulls the hostname out of a URL-shaped string; a string
// without a scheme comes back trimmed and otherwise unchanged.
func extractHost(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "://") {
		return trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return u.Hostname()
}
