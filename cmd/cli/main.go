package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Mordinel/gargoyle-web-monitor/internal/logging"
	"github.com/Mordinel/gargoyle-web-monitor/probe"
)

func main() {
	kind := flag.String("kind", "web", "probe kind: web, tcp, or dns")
	agent := flag.String("agent", probe.DefaultUserAgent, "User-Agent for web probes")
	timeout := flag.Duration("timeout", probe.DefaultTimeout, "per-target timeout")
	parallel := flag.Int("parallel", 4, "checks in flight at once")
	verbose := flag.Bool("v", false, "log each check to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] target [target ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *parallel < 1 {
		*parallel = 1
	}

	logger := zap.NewNop()
	if *verbose {
		logger = logging.NewConsole(zapcore.DebugLevel)
	}

	client := &http.Client{Timeout: *timeout}

	var buildErr error
	if *kind == "web" {
		if err := probe.ValidateUserAgent(*agent); err != nil {
			buildErr = multierr.Append(buildErr, err)
		}
	}

	checkers := make([]probe.Checker, 0, len(args))
	targets := make([]string, 0, len(args))
	for _, raw := range args {
		c, display, err := buildChecker(*kind, raw, client, *agent, logger)
		if err != nil {
			buildErr = multierr.Append(buildErr, err)
			continue
		}
		checkers = append(checkers, c)
		targets = append(targets, display)
	}
	if buildErr != nil {
		for _, err := range multierr.Errors(buildErr) {
			fmt.Fprintln(os.Stderr, "✖", err)
		}
		os.Exit(2)
	}

	results := make([]probe.CheckResult, len(checkers))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)
	for i, c := range checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, *timeout)
			defer cancel()
			results[i] = c.Check(cctx)
			return nil
		})
	}
	_ = g.Wait()

	down := 0
	for i, target := range targets {
		if results[i].Healthy {
			fmt.Println("✔", target)
		} else {
			fmt.Printf("✖ %s: %s\n", target, results[i].Diagnostic)
			down++
		}
	}
	if down > 0 {
		os.Exit(1)
	}
}

func buildChecker(kind, raw string, client *http.Client, agent string, logger *zap.Logger) (probe.Checker, string, error) {
	switch kind {
	case "web":
		target := raw
		if !strings.Contains(target, "://") {
			target = "https://" + target
		}
		c := probe.NewWebCheckerWithClient(target, client)
		c.UserAgent = agent
		c.Logger = logger
		return c, target, nil
	case "tcp":
		c, err := probe.NewTCPChecker(raw)
		if err != nil {
			return nil, raw, err
		}
		c.Logger = logger
		return c, raw, nil
	case "dns":
		c, err := probe.NewDNSChecker(raw)
		if err != nil {
			return nil, raw, err
		}
		c.Logger = logger
		return c, raw, nil
	default:
		return nil, raw, fmt.Errorf("unknown kind %q (want web, tcp, or dns)", kind)
	}
}
