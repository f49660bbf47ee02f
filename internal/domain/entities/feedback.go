package entities

import "time"

// Feedback is a resident-submitted feedback entry. UserEmail is always bound
// to the authenticated identity at submit time. Status moves Pending ->
// {Resolved, Rejected}, both terminal.
type Feedback struct {
	ID        string    `json:"id" db:"id"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	Feedback  string    `json:"feedback" db:"feedback"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FeedbackTerminalStatuses are the states an admin may move feedback into.
var FeedbackTerminalStatuses = []Status{StatusResolved, StatusRejected}
