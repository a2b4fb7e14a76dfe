// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Mordinel/gargoyle-web-monitor/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load()
	if err != nil {
		fail("config does not load: " + err.Error())
	}

	ok("server.addr=" + cfg.Server.Addr)
	ok("probe.user_agent=" + cfg.Probe.UserAgent)
	ok("probe.timeout=" + cfg.Probe.Timeout)
	ok("logging.level=" + cfg.Logging.Level + " logging.dir=" + cfg.Logging.Dir)

	if len(cfg.Server.APIKeys) == 0 {
		warn("server.api_keys is empty; /api/check will accept unauthenticated requests.")
	} else {
		for _, k := range cfg.Server.APIKeys {
			if strings.TrimSpace(k) != k || k == "" {
				warn("server.api_keys contains a blank or padded key; clients must send it byte for byte.")
				break
			}
		}
		ok(fmt.Sprintf("server.api_keys: %d configured", len(cfg.Server.APIKeys)))
	}

	wildcard := false
	for _, o := range cfg.Server.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		warn("server.allowed_origins includes *; any site may call the API from a browser.")
	} else {
		ok("server.allowed_origins=" + strings.Join(cfg.Server.AllowedOrigins, ","))
	}

	if cfg.Server.RateLimitRPM <= 0 {
		warn("server.rate_limit_rpm disabled; one client can keep a probe busy per request.")
	} else {
		ok(fmt.Sprintf("rate limit: %d req/min, burst %d", cfg.Server.RateLimitRPM, cfg.Server.RateLimitBurst))
	}

	ok("preflight passed")
}
