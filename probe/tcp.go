package probe

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
)

// TCPChecker probes whether a TCP port accepts connections. It makes no
// assumption about the protocol spoken on the port; a connection that is
// accepted and closed counts as healthy.
type TCPChecker struct {
	// Addr is the host:port to dial.
	Addr string

	// Logger carries the same optional side channel as WebChecker.Logger.
	Logger *zap.Logger

	dialer *net.Dialer
}

var _ Checker = (*TCPChecker)(nil)

// NewTCPChecker builds a probe for a host:port address.
func NewTCPChecker(addr string) (*TCPChecker, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" || port == "" {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid address %q: want host:port", addr)}
	}
	// SplitHostPort only splits on the last colon; it accepts any junk
	// after it, so the port needs its own check.
	if _, err := net.LookupPort("tcp", port); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid address %q: bad port %q", addr, port)}
	}
	return &TCPChecker{
		Addr:   addr,
		dialer: &net.Dialer{Timeout: DefaultTimeout},
	}, nil
}

// Check dials the address once and classifies the outcome.
func (c *TCPChecker) Check(ctx context.Context) CheckResult {
	log := logOrNop(c.Logger)

	conn, err := c.dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		cause := failureCause(err)
		log.Info("target_down", zap.String("addr", c.Addr))
		log.Error("check_failed",
			zap.String("addr", c.Addr),
			zap.String("reason", cause),
			zap.Error(err),
		)
		return CheckResult{
			Diagnostic: fmt.Sprintf("failed to connect to %s: %s", c.Addr, cause),
		}
	}
	_ = conn.Close()

	log.Info("target_up", zap.String("addr", c.Addr))
	return CheckResult{Healthy: true}
}
