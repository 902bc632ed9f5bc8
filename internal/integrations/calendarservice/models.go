package calendarservice

import "time"

// Attendee участник события календаря
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Event событие внешнего календаря
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	MeetingLink *string    `json:"meetingLink,omitempty"`
}

// Overlaps проверяет реальное пересечение события с окном [start, end)
// Граничащие интервалы пересечением не считаются
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}

// CreateEventRequest запрос на создание события
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
}

// CreateEventResponse ответ на создание события
type CreateEventResponse struct {
	EventID     string  `json:"eventId"`
	MeetingLink *string `json:"meetingLink,omitempty"`
}

// UpdateEventRequest запрос на частичное обновление события
// nil-поля не изменяются
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
}

// listEventsResponse ответ на запрос списка событий
type listEventsResponse struct {
	Events []Event `json:"events"`
}
