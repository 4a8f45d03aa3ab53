package inquiry

import "time"

// Status tracks an inquiry through triage.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
)

// Inquiry is a contact or viewing request for a property. The only
// mutation after creation is assignment to an agent; there is no
// deletion path.
type Inquiry struct {
	ID              string
	PropertyID      string
	Name            string
	Email           string
	Phone           string
	Message         string
	PreferredDate   *time.Time
	Status          Status
	AssignedAgentID *string
	CreatedAt       time.Time
}
