package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidExpression is returned for unparsable cron expressions.
var ErrInvalidExpression = errors.New("schedule: invalid cron expression")

// Schedule computes run times from a point in time.
type Schedule interface {
	// Next returns the next run time strictly after from.
	Next(from time.Time) time.Time
}

// Standard 5-field cron: minute, hour, day-of-month, month, day-of-week.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type cronSchedule struct {
	schedule cron.Schedule
}

// Parse parses a 5-field cron expression.
func Parse(expr string) (Schedule, error) {
	s, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, err)
	}
	return &cronSchedule{schedule: s}, nil
}

// Validate reports whether expr is a parsable cron expression.
func Validate(expr string) error {
	_, err := Parse(expr)
	return err
}

func (s *cronSchedule) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}
