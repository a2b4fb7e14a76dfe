// Package httpapi exposes availability checks over HTTP. A request to
// POST /api/check runs one probe against the submitted URL and returns
// the verdict in the response body. Nothing is scheduled or stored.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/Mordinel/gargoyle-web-monitor/internal/httpapi/middleware"
	"github.com/Mordinel/gargoyle-web-monitor/probe"
)

type Server struct {
	Logger *zap.Logger
	client *http.Client
}

// Options configures the router surface: CORS origins, API keys, and
// per-IP rate limits. Zero values fall back to permissive defaults.
type Options struct {
	AllowedOrigins []string
	APIKeys        []string
	RateLimitRPM   int
	RateLimitBurst int
}

// NewServer builds a server whose probes share one HTTP client. The
// user agent is stamped at the transport so every outgoing check
// carries it, and the timeout bounds each probe end to end.
func NewServer(l *zap.Logger, userAgent string, timeout time.Duration) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	return &Server{
		Logger: l,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &uaTransport{base: http.DefaultTransport, agent: userAgent},
		},
	}
}

// uaTransport sets the User-Agent on requests that do not already carry
// one. The request is cloned first; RoundTrippers must not mutate their
// argument.
type uaTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.agent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(apimw.RateLimit(opts.RateLimitRPM, opts.RateLimitBurst))
		api.Use(apimw.RequireKey(opts.APIKeys))
		api.Post("/check", s.handleCheck)
	})

	return r
}

type checkPayload struct {
	URL string `json:"url"`
}

type checkResponse struct {
	URL        string    `json:"url"`
	Healthy    bool      `json:"healthy"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if !isValidHTTPURL(p.URL) {
		http.Error(w, "invalid url", http.StatusBadRequest)
		return
	}
	target := normalizeHTTPURL(p.URL)

	chk := probe.NewWebCheckerWithClient(target, s.client)
	chk.Logger = s.Logger
	out := chk.Check(r.Context())

	// When the web probe fails, resolve the host as well so the caller
	// can tell a dead server from a dead name.
	diagnostic := out.Diagnostic
	if !out.Healthy {
		if dns, err := probe.NewDNSChecker(target); err == nil {
			dns.Logger = s.Logger
			if res := dns.Check(r.Context()); !res.Healthy {
				diagnostic = fmt.Sprintf("%s; %s", diagnostic, res.Diagnostic)
			}
		}
	}

	s.Logger.Info("check_served",
		zap.String("url", target),
		zap.Bool("healthy", out.Healthy),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(checkResponse{
		URL:        target,
		Healthy:    out.Healthy,
		Diagnostic: diagnostic,
		CheckedAt:  time.Now().UTC(),
	})
}

func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// normalizeHTTPURL lowercases the scheme and host, drops default ports,
// and trims a bare trailing slash so equivalent spellings compare equal.
func normalizeHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else {
		// Hostname strips the brackets off an IPv6 literal; a bare host
		// with a colon needs them back to stay parseable.
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		u.Host = host
	}
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}
