package loan

import (
	"time"
)

const DefaultPeriod = 14 * 24 * time.Hour

type Policy struct {
	period time.Duration
}

func NewPolicy(period time.Duration) Policy {
	if period <= 0 {
		period = DefaultPeriod
	}
	return Policy{period: period}
}

func (p Policy) Period() time.Duration {
	return p.period
}

// DueDate returns the override when given, otherwise borrowedAt plus the loan period.
func (p Policy) DueDate(borrowedAt time.Time, override *time.Time) (time.Time, error) {
	if override == nil {
		return borrowedAt.Add(p.period), nil
	}
	if !override.After(borrowedAt) {
		return time.Time{}, ErrInvalidDueDate
	}
	return override.UTC(), nil
}
