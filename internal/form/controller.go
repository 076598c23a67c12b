// Package form holds the state behind the admin "Add Events" page: the
// draft being typed, the last validation result, the submitted list and
// whether the form is shown.
//
// A Controller is not safe for concurrent use. Callers that share one
// across goroutines must serialize access themselves.
package form

import (
	"errors"
	"fmt"

	"eventadmin/internal/model"
)

// ErrUnknownField is returned by UpdateField for names that are not one
// of the six text fields. The draft is left unchanged.
var ErrUnknownField = errors.New("unknown event field")

// Visibility is whether the form and table are shown.
type Visibility string

const (
	Hidden  Visibility = "hidden"
	Visible Visibility = "visible"
)

// Status is whether the last submit attempt left errors behind.
type Status string

const (
	Clean     Status = "clean"
	HasErrors Status = "has_errors"
)

// State is the controller's position in {Hidden, Visible} x {Clean, HasErrors}.
type State struct {
	Visibility Visibility `json:"visibility"`
	Status     Status     `json:"status"`
}

func (s State) String() string {
	return string(s.Visibility) + "/" + string(s.Status)
}

// Controller owns the draft, validation errors, submitted events and the
// visibility flag. The zero value is not usable; call NewController.
type Controller struct {
	draft   model.Event
	errors  ValidationErrors
	events  []model.Event
	visible bool
}

// NewController returns a controller in the {Hidden, Clean} state with an
// empty draft and no submitted events.
func NewController() *Controller {
	return &Controller{
		errors: ValidationErrors{},
		events: []model.Event{},
	}
}

// Open shows the form.
func (c *Controller) Open() {
	c.visible = true
}

// Cancel hides the form. The draft and any errors are kept as they are
// and reappear on the next Open.
func (c *Controller) Cancel() {
	c.visible = false
}

// UpdateField overwrites one text field of the draft. Any string is
// accepted, including "". Errors from a previous submit are not touched,
// so a stale message stays until the next Submit.
func (c *Controller) UpdateField(name model.Field, value string) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, string(name))
	}
	c.draft.Set(name, value)
	return nil
}

// ToggleApproval sets the admin approval flag of the draft.
func (c *Controller) ToggleApproval(checked bool) {
	c.draft.AdminApproval = checked
}

// Submit validates the draft. When any text field is empty the error map
// is replaced with one message per empty field and false is returned;
// the draft and the list are untouched. Otherwise a copy of the draft is
// appended to the list, the draft is reset and the errors are cleared.
//
// The returned map is a copy and is empty on success.
func (c *Controller) Submit() (ValidationErrors, bool) {
	if errs := Validate(c.draft); len(errs) > 0 {
		c.errors = errs
		return errs.clone(), false
	}

	c.events = append(c.events, c.draft)
	c.draft = model.Event{}
	c.errors = ValidationErrors{}
	return ValidationErrors{}, true
}

// Draft returns a copy of the event currently being edited.
func (c *Controller) Draft() model.Event {
	return c.draft
}

// Errors returns a copy of the errors from the last submit attempt.
func (c *Controller) Errors() ValidationErrors {
	return c.errors.clone()
}

// Events returns a copy of the submitted events in insertion order.
func (c *Controller) Events() []model.Event {
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Len is the number of submitted events.
func (c *Controller) Len() int {
	return len(c.events)
}

// Visible reports whether the form is shown.
func (c *Controller) Visible() bool {
	return c.visible
}

// State reports where the controller sits in {Hidden, Visible} x {Clean, HasErrors}.
func (c *Controller) State() State {
	s := State{Visibility: Hidden, Status: Clean}
	if c.visible {
		s.Visibility = Visible
	}
	if len(c.errors) > 0 {
		s.Status = HasErrors
	}
	return s
}
