package probe_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Mordinel/gargoyle-web-monitor/probe"
)

// A minimal polling driver. Anything that owns a schedule can run probes of
// any kind through the Checker interface and forward diagnostics to its own
// notification path; edge detection and alert suppression live there too.
func Example() {
	web, err := probe.NewWebCheckerWithUserAgent("https://example.com", "Gargoyle/0.1 ops@example.com")
	if err != nil {
		fmt.Println(err)
		return
	}
	ssh, err := probe.NewTCPChecker("example.com:22")
	if err != nil {
		fmt.Println(err)
		return
	}

	checks := []probe.Checker{web, ssh}
	for {
		for _, c := range checks {
			if res := c.Check(context.Background()); !res.Healthy {
				fmt.Println("notify:", res.Diagnostic)
			}
		}
		time.Sleep(time.Minute)
	}
}
