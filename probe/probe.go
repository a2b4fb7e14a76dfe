// Package probe implements availability probes: small, stateless checkers
// that test one target and classify it as healthy or unhealthy. An external
// scheduler drives probes through the Checker interface on its own cadence
// and decides what to do with the outcome; probes never retry, never alert,
// and keep no history between calls.
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

const (
	// DefaultUserAgent identifies this software and version to target
	// servers when the caller does not supply an agent string.
	DefaultUserAgent = "Gargoyle/0.1"

	// DefaultTimeout bounds every check made through a probe-built client
	// or dialer, so a check can never block indefinitely.
	DefaultTimeout = 10 * time.Second
)

// CheckResult is the classified outcome of a single check. Diagnostic is
// empty exactly when Healthy is true; otherwise it describes what failed in
// a form fit for an alert message.
type CheckResult struct {
	Healthy    bool   `json:"healthy"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Checker is implemented by every probe kind (web, TCP, DNS, ...). A
// scheduler calls Check on a timer and inspects the result; an unreachable
// target is a routine outcome carried in the result, never an error.
// Implementations are safe for concurrent use.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// ConfigError reports that a probe could not be constructed. It is the only
// failure mode of the constructors; once a probe exists, checking it does
// not fail.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "probe configuration: " + e.Reason
}

// ValidateUserAgent reports whether ua can be sent as a User-Agent header
// value. Empty or syntactically invalid values yield a *ConfigError.
func ValidateUserAgent(ua string) error {
	if ua == "" {
		return &ConfigError{Reason: "user agent must not be empty"}
	}
	if !httpguts.ValidHeaderFieldValue(ua) {
		return &ConfigError{Reason: fmt.Sprintf("invalid user agent %q", ua)}
	}
	return nil
}

var nop = zap.NewNop()

func logOrNop(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return nop
}

// failureCause names the transport-level reason a check could not complete.
// The returned string never contains an HTTP status code, so connection
// failures stay distinguishable from bad-status failures in diagnostics.
func failureCause(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return "no such host"
		case dnsErr.IsTimeout:
			return "dns lookup timed out"
		case dnsErr.IsTemporary:
			return "dns server failure"
		}
		return "dns lookup failed"
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return "tls certificate verification failed"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "connection refused"
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return "connection reset"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	return "connection failed"
}
