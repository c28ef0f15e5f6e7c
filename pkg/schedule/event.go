package schedule

import (
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	TypeWorkshop EventType = "W"
	TypeCourse   EventType = "C"
	TypeMeeting  EventType = "M"
)

type Status string

const (
	StatusOffered   Status = "Offered"
	StatusTentative Status = "Tentative"
	StatusConfirmed Status = "Confirmed"
	StatusBlocked   Status = "Blocked"
)

type Source string

const (
	SourceEQS Source = "EQS"
	SourceCCE Source = "CCE"
	SourceCTD Source = "CTD"
)

type Medium string

const (
	MediumF2F    Medium = "F2F"
	MediumOnline Medium = "Online"
)

type Invoiced string

const (
	InvoicedNo  Invoiced = "No"
	InvoicedYes Invoiced = "Yes"
)

// ActionType records the last operation applied to an event.
type ActionType string

const (
	ActionCreated      ActionType = "Created"
	ActionModified     ActionType = "Modified"
	ActionBulkModified ActionType = "Bulk Modified"
	ActionDuplicated   ActionType = "Duplicated"
	ActionDeleted      ActionType = "Deleted"
)

// Trainers is the fixed trainer roster. Calendar cells report per-trainer
// counts in this order.
var Trainers = []string{"Dom", "Andrew", "Dale", "Jack"}

// Locations is the fixed location roster.
var Locations = []string{"Syd", "Mel", "Bne", "SG", "Msia"}

// DateModifiedLayout is the format used for the Date Modified column.
const DateModifiedLayout = "2006-01-02 15:04"

// DateLayout is the format used for the Date column and for dates on the wire.
const DateLayout = "2006-01-02"

// Event is a single-day booking. Multi-day input is expanded into one Event
// per calendar day before it ever reaches the store.
type Event struct {
	// ID is assigned at creation (or backfilled on load for legacy rows) and
	// is the only stable reference to a record across requests.
	ID           string
	Date         time.Time
	Type         EventType
	Status       Status
	Source       Source
	Client       string
	Course       string
	Trainer      string
	Medium       Medium
	Location     string
	Billing      string
	Invoiced     Invoiced
	Notes        string
	DateModified time.Time
	ActionType   ActionType
	ModifiedBy   string
}

// Title derives the display title from the event's fields. It is never
// stored independently: callers recompute it immediately before any save.
func (e Event) Title() string {
	base := fmt.Sprintf("%s-%s-%s %s", e.Status, e.Source, e.Client, e.Course)
	switch e.Type {
	case TypeWorkshop:
		base += fmt.Sprintf(" (%s) %s %s", e.Medium, e.Trainer, e.Location)
	case TypeMeeting:
		base += fmt.Sprintf(" %s %s", e.Trainer, e.Location)
	default:
		base += fmt.Sprintf(" %s", e.Trainer)
	}
	return strings.TrimSpace(base)
}
