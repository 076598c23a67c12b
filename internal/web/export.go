package web

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"eventadmin/internal/capture"
	"eventadmin/internal/ics"
	appLog "eventadmin/internal/log"
	"eventadmin/internal/table"
)

// handleICS exports the submitted list as text/calendar. Entries whose
// date or times are not calendar-shaped are left out and counted in the
// X-Skipped-Events header.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.ctrl.Events()
	s.mu.Unlock()

	res := ics.Export(events, ics.ExportConfig{
		Location:     s.loc,
		CalendarName: s.cfg.Title,
	})
	if len(res.Skipped) > 0 {
		appLog.Warn("ics export skipped events", "skipped", len(res.Skipped), "exported", res.Exported)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.Header().Set("X-Skipped-Events", strconv.Itoa(len(res.Skipped)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.Body))
}

func (s *Server) handleText(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.ctrl.Events()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := table.Render(&buf, events, s.cfg.TableMaxWidth); err != nil {
		appLog.Error("failed to render events table", err)
		http.Error(w, "failed to render table", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type snapshotResponse struct {
	Path     string    `json:"path"`
	TakenAt  time.Time `json:"taken_at"`
	Duration string    `json:"duration"`
}

// handleAPISnapshot screenshots the dashboard as currently rendered.
// The browser loads the page from this same server, so the controller
// lock must not be held here.
func (s *Server) handleAPISnapshot(w http.ResponseWriter, r *http.Request) {
	opts := capture.Options{
		URL:        selfURL(s.cfg.Listen),
		OutputPath: s.cfg.Capture.OutputPath,
		Width:      s.cfg.Capture.Width,
		Height:     s.cfg.Capture.Height,
		Timeout:    time.Duration(s.cfg.Capture.TimeoutSeconds) * time.Second,
	}
	if s.cfg.BasicAuthEnabled() {
		opts.Username = s.cfg.BasicAuth.Username
		opts.Password = s.cfg.BasicAuth.Password
	}

	start := time.Now()
	if err := s.snapshot(r.Context(), opts); err != nil {
		appLog.Error("dashboard snapshot failed", err, "url", opts.URL)
		writeError(w, http.StatusInternalServerError, "failed to capture dashboard")
		return
	}

	elapsed := time.Since(start)
	appLog.Info("dashboard snapshot written", "path", opts.OutputPath, "duration", elapsed)
	writeJSON(w, http.StatusOK, snapshotResponse{
		Path:     opts.OutputPath,
		TakenAt:  start,
		Duration: elapsed.String(),
	})
}

// handlePreview serves the last snapshot from disk; 404 until one exists.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.Capture.OutputPath)
}
