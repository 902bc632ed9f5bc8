package domain

import (
	"time"

	"github.com/ankudinovm/BDA-SlotService/pkg/types"
)

// TimeSlot represents a one-hour bookable time window
// The slot table is the source of truth for availability; the external
// calendar holds a mirror event referenced by RemoteEventID
type TimeSlot struct {
	ID        string
	Date      time.Time
	DayName   string
	TimeOfDay types.TimeString
	Available bool

	// Booking metadata, present only when the slot is taken
	BookedBy *string
	BookedAt *time.Time

	// Identifier of the mirror event in the external calendar
	// Nil until the event has been created; never reused across slots
	RemoteEventID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBooked returns true if the slot is no longer offered for booking
func (s *TimeSlot) IsBooked() bool {
	return !s.Available
}

// HasRemoteEvent returns true if the slot is linked to an external calendar event
func (s *TimeSlot) HasRemoteEvent() bool {
	return s.RemoteEventID != nil && *s.RemoteEventID != ""
}

// StartAt returns the instant the slot window opens
func (s *TimeSlot) StartAt() (time.Time, error) {
	return s.TimeOfDay.OnDate(s.Date)
}

// EndAt returns the instant the slot window closes
func (s *TimeSlot) EndAt() (time.Time, error) {
	start, err := s.StartAt()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(SlotDurationMinutes * time.Minute), nil
}

// DayNameForDate returns the human-readable weekday label for a date
func DayNameForDate(date time.Time) string {
	return date.Weekday().String()
}

// IsWeekday returns true if the date falls on Monday through Friday
func IsWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
