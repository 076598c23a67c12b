package model

// Field names one of the six free-text fields of an Event. The string
// value matches the HTML input name and the JSON key.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
	FieldStartTime   Field = "startTime"
	FieldEndTime     Field = "endTime"
	FieldLocation    Field = "location"
)

// TextFields lists the text fields in form and table order.
var TextFields = []Field{
	FieldTitle,
	FieldDescription,
	FieldDate,
	FieldStartTime,
	FieldEndTime,
	FieldLocation,
}

// Valid reports whether f is one of the six text fields.
func (f Field) Valid() bool {
	switch f {
	case FieldTitle, FieldDescription, FieldDate, FieldStartTime, FieldEndTime, FieldLocation:
		return true
	}
	return false
}

// Event is a single calendar event as entered in the admin form.
//
// All text fields are free text. Date is expected as an ISO calendar date
// and StartTime/EndTime as HH:MM, but nothing enforces that shape.
type Event struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`

	AdminApproval bool `json:"adminApproval"`
}

// Get returns the value of a text field. Unknown fields yield "".
func (e Event) Get(f Field) string {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldDescription:
		return e.Description
	case FieldDate:
		return e.Date
	case FieldStartTime:
		return e.StartTime
	case FieldEndTime:
		return e.EndTime
	case FieldLocation:
		return e.Location
	}
	return ""
}

// Set overwrites a text field and reports whether f was recognized.
func (e *Event) Set(f Field, v string) bool {
	switch f {
	case FieldTitle:
		e.Title = v
	case FieldDescription:
		e.Description = v
	case FieldDate:
		e.Date = v
	case FieldStartTime:
		e.StartTime = v
	case FieldEndTime:
		e.EndTime = v
	case FieldLocation:
		e.Location = v
	default:
		return false
	}
	return true
}

// ApprovalLabel renders AdminApproval the way the events table shows it.
func (e Event) ApprovalLabel() string {
	if e.AdminApproval {
		return "Yes"
	}
	return "No"
}

// Columns is the header row of the submitted-events table.
var Columns = []string{
	"Title",
	"Description",
	"Date",
	"Start Time",
	"End Time",
	"Location",
	"Admin Approval",
}

// Row returns the table cells for e, aligned with Columns.
func (e Event) Row() []string {
	return []string{
		e.Title,
		e.Description,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.Location,
		e.ApprovalLabel(),
	}
}
