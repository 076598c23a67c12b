package web

import (
	"bytes"
	"net/http"

	appLog "eventadmin/internal/log"
	"eventadmin/internal/model"
)

// fieldView is one labeled input of the event form.
type fieldView struct {
	Name     string
	Label    string
	Type     string
	TextArea bool
	Value    string
	Error    string
}

type dashboardView struct {
	Title   string
	Visible bool
	Fields  []fieldView
	Draft   model.Event
	Events  []model.Event
	Columns []string
}

var fieldInputs = []struct {
	field    model.Field
	label    string
	typ      string
	textArea bool
}{
	{model.FieldTitle, "Title", "text", false},
	{model.FieldDescription, "Description", "", true},
	{model.FieldDate, "Date", "date", false},
	{model.FieldStartTime, "Start Time", "time", false},
	{model.FieldEndTime, "End Time", "time", false},
	{model.FieldLocation, "Location", "text", false},
}

// viewLocked snapshots the controller for rendering. Caller holds s.mu.
func (s *Server) viewLocked() dashboardView {
	draft := s.ctrl.Draft()
	errs := s.ctrl.Errors()

	fields := make([]fieldView, 0, len(fieldInputs))
	for _, in := range fieldInputs {
		fields = append(fields, fieldView{
			Name:     string(in.field),
			Label:    in.label,
			Type:     in.typ,
			TextArea: in.textArea,
			Value:    draft.Get(in.field),
			Error:    errs[in.field],
		})
	}

	return dashboardView{
		Title:   s.cfg.Title,
		Visible: s.ctrl.Visible(),
		Fields:  fields,
		Draft:   draft,
		Events:  s.ctrl.Events(),
		Columns: model.Columns,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, view dashboardView) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		appLog.Error("failed to render dashboard", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	view := s.viewLocked()
	s.mu.Unlock()

	s.render(w, http.StatusOK, view)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.ctrl.Open()
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCancel keeps whatever the user typed before hiding the form, the
// same as if each keystroke had already reached the draft.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.bindFormLocked(r)
	s.ctrl.Cancel()
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.bindFormLocked(r)
	errs, ok := s.ctrl.Submit()
	count := s.ctrl.Len()
	view := s.viewLocked()
	s.mu.Unlock()

	if !ok {
		appLog.Debug("event submit rejected", "fields", errs.Fields())
		s.render(w, http.StatusUnprocessableEntity, view)
		return
	}

	appLog.Info("event submitted", "count", count)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// bindFormLocked copies posted form values into the draft. Only fields
// present in the body are touched; the approval checkbox is unchecked
// when absent, as browsers omit unchecked boxes. Caller holds s.mu.
func (s *Server) bindFormLocked(r *http.Request) {
	posted := false
	for _, f := range model.TextFields {
		vals, ok := r.PostForm[string(f)]
		if !ok || len(vals) == 0 {
			continue
		}
		posted = true
		// Names come from model.TextFields, so UpdateField cannot fail.
		_ = s.ctrl.UpdateField(f, vals[0])
	}
	if posted || r.PostForm.Has("adminApproval") {
		s.ctrl.ToggleApproval(r.PostForm.Has("adminApproval"))
	}
}
