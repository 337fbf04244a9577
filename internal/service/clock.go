package service

import (
	"time"

	"expense-tracker/internal/models"
)

// Clock decides what "today" is for date-relative reports.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{now: time.Now, loc: loc}
}

// NewFixedClock always reports t.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }, loc: t.Location()}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Today() models.Date {
	return models.DateOf(c.Now())
}
