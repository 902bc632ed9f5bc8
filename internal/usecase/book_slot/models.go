package book_slot

import (
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
)

// Request запрос на бронирование слота
type Request struct {
	SlotID string
	Name   string
	Email  string
}

// Response результат успешного бронирования
type Response struct {
	SlotID        string
	Date          time.Time
	DayName       string
	TimeOfDay     string
	BookedBy      string
	BookedAt      time.Time
	RemoteEventID string
	MeetingLink   *string
}

// fromDomainSlot собирает ответ из забронированного слота
func fromDomainSlot(slot *domain.TimeSlot, meetingLink *string) *Response {
	resp := &Response{
		SlotID:      slot.ID,
		Date:        slot.Date,
		DayName:     slot.DayName,
		TimeOfDay:   slot.TimeOfDay.String(),
		MeetingLink: meetingLink,
	}

	if slot.BookedBy != nil {
		resp.BookedBy = *slot.BookedBy
	}
	if slot.BookedAt != nil {
		resp.BookedAt = *slot.BookedAt
	}
	if slot.RemoteEventID != nil {
		resp.RemoteEventID = *slot.RemoteEventID
	}

	return resp
}
