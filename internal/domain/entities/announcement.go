package entities

import "time"

// Announcement is an admin-published notice. The timestamp is assigned
// server-side at creation so ordering is immune to client clock skew.
type Announcement struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
