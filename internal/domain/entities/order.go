package entities

import "time"

// Order is a resident food order. Status moves Pending -> {Accepted,
// Rejected}, both terminal.
type Order struct {
	ID        string    `json:"id" db:"id"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	Item      string    `json:"item" db:"item"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderTerminalStatuses are the states an admin may move an order into.
var OrderTerminalStatuses = []Status{StatusAccepted, StatusRejected}
