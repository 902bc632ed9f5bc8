package book_slot

import (
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	bookSlot "github.com/ankudinovm/BDA-SlotService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	SlotID string `json:"slotId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// BookSlotResponse HTTP response model
type BookSlotResponse struct {
	Success       bool    `json:"success"`
	SlotID        string  `json:"slotId"`
	Date          string  `json:"date"`
	DayName       string  `json:"dayName"`
	Time          string  `json:"time"`
	BookedBy      string  `json:"bookedBy"`
	BookedAt      string  `json:"bookedAt"` // ISO 8601
	RemoteEventID string  `json:"remoteEventId"`
	MeetingLink   *string `json:"meetingLink,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest() *bookSlot.Request {
	return &bookSlot.Request{
		SlotID: r.SlotID,
		Name:   r.Name,
		Email:  r.Email,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *BookSlotResponse {
	return &BookSlotResponse{
		Success:       true,
		SlotID:        resp.SlotID,
		Date:          resp.Date.Format(domain.DateFormat),
		DayName:       resp.DayName,
		Time:          resp.TimeOfDay,
		BookedBy:      resp.BookedBy,
		BookedAt:      resp.BookedAt.Format(time.RFC3339),
		RemoteEventID: resp.RemoteEventID,
		MeetingLink:   resp.MeetingLink,
	}
}
