package web

import (
	"errors"
	"net/http"

	"eventadmin/internal/form"
	appLog "eventadmin/internal/log"
	"eventadmin/internal/model"
)

// stateResponse is the JSON shape for /api/state and the state-changing calls.
type stateResponse struct {
	Visible bool                  `json:"visible"`
	State   form.State            `json:"state"`
	Draft   model.Event           `json:"draft"`
	Errors  form.ValidationErrors `json:"errors"`
	Events  []model.Event         `json:"events"`
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
	Count  int           `json:"count"`
}

type submitResponse struct {
	OK     bool                  `json:"ok"`
	Errors form.ValidationErrors `json:"errors"`
	Events []model.Event         `json:"events"`
}

type fieldRequest struct {
	Name  model.Field `json:"name"`
	Value string      `json:"value"`
}

type approvalRequest struct {
	Checked bool `json:"checked"`
}

func (s *Server) stateLocked() stateResponse {
	return stateResponse{
		Visible: s.ctrl.Visible(),
		State:   s.ctrl.State(),
		Draft:   s.ctrl.Draft(),
		Errors:  s.ctrl.Errors(),
		Events:  s.ctrl.Events(),
	}
}

func (s *Server) handleAPIState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := s.ctrl.Events()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}

func (s *Server) handleAPIOpen(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.ctrl.Open()
	resp := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPICancel(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.ctrl.Cancel()
	resp := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleAPIField applies one keystroke-level update.
//
// POST /api/field {"name":"title","value":"Sprint Review"}
func (s *Server) handleAPIField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	err := s.ctrl.UpdateField(req.Name, req.Value)
	resp := s.stateLocked()
	s.mu.Unlock()

	if errors.Is(err, form.ErrUnknownField) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/approval {"checked":true}
func (s *Server) handleAPIApproval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	s.ctrl.ToggleApproval(req.Checked)
	resp := s.stateLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleAPISubmit answers 200 with the updated list, or 422 with one
// message per empty field.
func (s *Server) handleAPISubmit(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	errs, ok := s.ctrl.Submit()
	events := s.ctrl.Events()
	s.mu.Unlock()

	resp := submitResponse{OK: ok, Errors: errs, Events: events}
	if !ok {
		appLog.Debug("api submit rejected", "fields", errs.Fields())
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	appLog.Info("event submitted", "count", len(events))
	writeJSON(w, http.StatusOK, resp)
}
