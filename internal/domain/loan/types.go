package loan

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusOverdue  Status = "OVERDUE"
	StatusReturned Status = "RETURNED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOverdue, StatusReturned:
		return true
	default:
		return false
	}
}

// IsOutstanding reports whether the copy is still out of the library.
func (s Status) IsOutstanding() bool {
	return s == StatusActive || s == StatusOverdue
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// OutstandingStatuses is the set counted against a book's available copies.
func OutstandingStatuses() []Status {
	return []Status{StatusActive, StatusOverdue}
}
