package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a period's begin is after its end.
var ErrInvalidRange = errors.New("invalid date range")

// Period is an inclusive range of calendar days.
type Period struct {
	Begin Date
	End   Date
}

// NewPeriod returns the period [begin, end]. It never swaps the bounds.
func NewPeriod(begin, end Date) (Period, error) {
	if begin.After(end) {
		return Period{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, begin, end)
	}
	return Period{Begin: begin, End: end}, nil
}

// Days returns the number of days in p.
func (p Period) Days() int {
	return p.Begin.DaysUntil(p.End) + 1
}

// Contains reports whether d falls inside p.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Begin) && !d.After(p.End)
}

// String returns "begin..end".
func (p Period) String() string {
	return p.Begin.String() + ".." + p.End.String()
}
