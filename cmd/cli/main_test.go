package main

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mordinel/gargoyle-web-monitor/probe"
)

func testClient() *http.Client {
	return &http.Client{Timeout: time.Second}
}

func TestBuildChecker_WebPrefixesBareHost(t *testing.T) {
	c, display, err := buildChecker("web", "example.com", testClient(), "Agent/1.0", zap.NewNop())
	if err != nil {
		t.Fatalf("buildChecker: %v", err)
	}
	if display != "https://example.com" {
		t.Fatalf("want display https://example.com, got %q", display)
	}
	web, ok := c.(*probe.WebChecker)
	if !ok {
		t.Fatalf("want *probe.WebChecker, got %T", c)
	}
	if web.URL != "https://example.com" {
		t.Fatalf("checker URL should match the display target, got %q", web.URL)
	}
	if web.UserAgent != "Agent/1.0" {
		t.Fatalf("want user agent Agent/1.0, got %q", web.UserAgent)
	}
}

func TestBuildChecker_WebKeepsExplicitScheme(t *testing.T) {
	_, display, err := buildChecker("web", "http://example.com:8080/health", testClient(), probe.DefaultUserAgent, zap.NewNop())
	if err != nil {
		t.Fatalf("buildChecker: %v", err)
	}
	if display != "http://example.com:8080/health" {
		t.Fatalf("scheme-carrying target must pass through unchanged, got %q", display)
	}
}

func TestBuildChecker_KindDispatch(t *testing.T) {
	tcpChk, display, err := buildChecker("tcp", "example.com:443", testClient(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("tcp: %v", err)
	}
	if display != "example.com:443" {
		t.Fatalf("tcp display = %q, want example.com:443", display)
	}
	if tc, ok := tcpChk.(*probe.TCPChecker); !ok || tc.Addr != "example.com:443" {
		t.Fatalf("want *probe.TCPChecker for example.com:443, got %T %+v", tcpChk, tcpChk)
	}

	dnsChk, _, err := buildChecker("dns", "https://example.com/status", testClient(), "", zap.NewNop())
	if err != nil {
		t.Fatalf("dns: %v", err)
	}
	if dc, ok := dnsChk.(*probe.DNSChecker); !ok || dc.Host != "example.com" {
		t.Fatalf("want *probe.DNSChecker with host example.com, got %T %+v", dnsChk, dnsChk)
	}
}

func TestBuildChecker_ConstructionErrors(t *testing.T) {
	cases := []struct {
		kind, target string
	}{
		{"tcp", "https://example.com"},
		{"tcp", "no-port"},
		{"dns", ""},
	}
	for _, c := range cases {
		chk, _, err := buildChecker(c.kind, c.target, testClient(), "", zap.NewNop())
		if err == nil {
			t.Fatalf("buildChecker(%q, %q): want error, got %+v", c.kind, c.target, chk)
		}
		var cfgErr *probe.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("buildChecker(%q, %q): want *probe.ConfigError, got %T: %v", c.kind, c.target, err, err)
		}
		if chk != nil {
			t.Fatalf("buildChecker(%q, %q): checker must be nil on error, got %+v", c.kind, c.target, chk)
		}
	}
}

func TestBuildChecker_UnknownKind(t *testing.T) {
	_, _, err := buildChecker("ping", "example.com", testClient(), "", zap.NewNop())
	if err == nil {
		t.Fatal("want error for unknown kind")
	}
	if !strings.Contains(err.Error(), "ping") {
		t.Fatalf("error should name the kind, got %v", err)
	}
}
