package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"eventadmin/internal/capture"
	"eventadmin/internal/config"
	"eventadmin/internal/form"
	appLog "eventadmin/internal/log"
)

// Server serves the admin dashboard, its JSON API and the list exports.
//
// It owns exactly one form.Controller. Every request that touches the
// controller holds mu for the whole operation, so the controller sees
// one request at a time in arrival order.
type Server struct {
	cfg   *config.Config
	debug bool
	mux   *http.ServeMux
	tmpl  *template.Template
	loc   *time.Location

	mu   sync.Mutex
	ctrl *form.Controller

	// snapshot takes the dashboard screenshot; replaced in tests.
	snapshot func(ctx context.Context, opts capture.Options) error
}

//go:embed templates/*.html
var templateFS embed.FS

// NewServer constructs a Server with a fresh controller.
func NewServer(cfg *config.Config, debug bool) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Normalize()

	s := &Server{
		cfg:      cfg,
		debug:    debug,
		mux:      http.NewServeMux(),
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
		loc:      resolveLocationOrUTC(cfg.Timezone),
		ctrl:     form.NewController(),
		snapshot: capture.DashboardPNG,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.cfg.BasicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Summary reports the controller state and the number of submitted events.
func (s *Server) Summary() (form.State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State(), s.ctrl.Len()
}

// Run serves on cfg.Listen until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen, "debug", s.debug)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Dashboard.
	s.mux.HandleFunc("GET /{$}", s.handleDashboard)
	s.mux.HandleFunc("POST /open", s.handleOpen)
	s.mux.HandleFunc("POST /cancel", s.handleCancel)
	s.mux.HandleFunc("POST /submit", s.handleSubmit)

	// JSON API.
	s.mux.HandleFunc("GET /api/state", s.handleAPIState)
	s.mux.HandleFunc("GET /api/events", s.handleAPIEvents)
	s.mux.HandleFunc("POST /api/open", s.handleAPIOpen)
	s.mux.HandleFunc("POST /api/cancel", s.handleAPICancel)
	s.mux.HandleFunc("POST /api/field", s.handleAPIField)
	s.mux.HandleFunc("POST /api/approval", s.handleAPIApproval)
	s.mux.HandleFunc("POST /api/submit", s.handleAPISubmit)
	s.mux.HandleFunc("POST /api/snapshot", s.handleAPISnapshot)

	// Exports.
	s.mux.HandleFunc("GET /events.ics", s.handleICS)
	s.mux.HandleFunc("GET /events.txt", s.handleText)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="eventadmin", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func resolveLocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to UTC", err, "name", name)
		return time.UTC
	}
	return loc
}

// selfURL turns a listen address into a URL a local browser can open.
func selfURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
