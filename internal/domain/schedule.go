package domain

import (
	"fmt"
	"time"
)

// ScheduleKind selects the launch window for a dispatch.
type ScheduleKind string

const (
	// ScheduleImmediate publishes as soon as dispatch is requested.
	ScheduleImmediate ScheduleKind = "now"

	// ScheduleAISuggested resolves to the engagement-optimized slot.
	ScheduleAISuggested ScheduleKind = "ai"

	// ScheduleCustom uses an explicit date and time. Both must be set
	// before dispatch is allowed.
	ScheduleCustom ScheduleKind = "custom"
)

// Schedule is the composer's scheduling intent.
type Schedule struct {
	Kind ScheduleKind `json:"type"`
	Date string       `json:"date,omitempty"` // YYYY-MM-DD, custom only
	Time string       `json:"time,omitempty"` // HH:MM, custom only
}

// Validate checks that the schedule is dispatchable. A custom schedule with
// a missing date or time is rejected; this closes a gap the dashboard UI
// historically left unchecked.
func (s Schedule) Validate() error {
	switch s.Kind {
	case "", ScheduleImmediate, ScheduleAISuggested:
		return nil
	case ScheduleCustom:
		if s.Date == "" || s.Time == "" {
			return NewError(KindPreconditionNotMet, "custom schedule requires both date and time", nil)
		}
		if _, err := s.LaunchAt(time.Now()); err != nil {
			return NewError(KindPreconditionNotMet, "invalid custom schedule", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown schedule kind: %s", s.Kind)
	}
}

// LaunchAt resolves the schedule to a concrete launch instant. The
// AI-suggested window is tomorrow at 09:45 local time.
func (s Schedule) LaunchAt(now time.Time) (time.Time, error) {
	switch s.Kind {
	case "", ScheduleImmediate:
		return now, nil
	case ScheduleAISuggested:
		next := now.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), 9, 45, 0, 0, now.Location()), nil
	case ScheduleCustom:
		t, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Time, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("parse schedule %q %q: %w", s.Date, s.Time, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("unknown schedule kind: %s", s.Kind)
	}
}

// Deferred reports whether the schedule targets a future window rather than
// an immediate launch.
func (s Schedule) Deferred() bool {
	return s.Kind == ScheduleAISuggested || s.Kind == ScheduleCustom
}
