package entities

import "time"

// MenuItem is a dish on the mess menu. Items are created and deleted by
// admins, never updated in place; creation always allocates a new id.
type MenuItem struct {
	ID        string    `json:"id" db:"id"`
	Item      string    `json:"item" db:"item"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
