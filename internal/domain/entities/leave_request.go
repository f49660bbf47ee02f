package entities

import "time"

// LeaveRequest is a resident-submitted leave application. Status moves
// Pending -> {Accepted, Rejected}, both terminal.
type LeaveRequest struct {
	ID        string    `json:"id" db:"id"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	Reason    string    `json:"reason" db:"reason"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LeaveTerminalStatuses are the states an admin may move a leave request into.
var LeaveTerminalStatuses = []Status{StatusAccepted, StatusRejected}
