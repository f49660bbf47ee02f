package entities

// Status is the lifecycle state of a submitted request record.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusResolved Status = "Resolved"
	StatusRejected Status = "Rejected"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// NormalizeStatus applies the read-side default: records persisted without a
// status render as Pending. Applied once at the decode boundary, never
// written back.
func NormalizeStatus(s Status) Status {
	if s == "" {
		return StatusPending
	}
	return s
}
