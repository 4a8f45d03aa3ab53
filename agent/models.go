package agent

import "time"

// Agent is the public profile of a real-estate agent. Active is false
// until an admin approves the profile; inactive agents are invisible in
// the directory and cannot list properties.
type Agent struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Bio          string
	ProfileImage string
	Specialties  []string
	Rating       float64
	ReviewCount  int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
