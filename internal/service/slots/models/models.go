package models

import (
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	"github.com/ankudinovm/BDA-SlotService/pkg/types"
)

// Request модели

// SlotInput входные данные одного слота для массового сохранения
type SlotInput struct {
	ID            string  `json:"id,omitempty"` // Пустой ID - слот новый, идентификатор выдаст сервис
	Date          string  `json:"date"`         // "2025-09-01"
	TimeOfDay     string  `json:"time"`         // "10:00"
	Available     bool    `json:"available"`
	BookedBy      *string `json:"bookedBy,omitempty"`
	BookedAt      *string `json:"bookedAt,omitempty"` // ISO 8601
	RemoteEventID *string `json:"remoteEventId,omitempty"`
}

// SaveSlotsRequest запрос на массовое сохранение слотов
type SaveSlotsRequest struct {
	Slots []SlotInput `json:"slots"`
}

// ToDomainSlot конвертирует входные данные в domain модель
func (in *SlotInput) ToDomainSlot() (*domain.TimeSlot, error) {
	date, err := time.Parse(domain.DateFormat, in.Date)
	if err != nil {
		return nil, err
	}

	timeOfDay, err := types.NewTimeStringFromString(in.TimeOfDay)
	if err != nil {
		return nil, err
	}

	slot := &domain.TimeSlot{
		ID:            in.ID,
		Date:          date,
		DayName:       domain.DayNameForDate(date),
		TimeOfDay:     timeOfDay,
		Available:     in.Available,
		BookedBy:      in.BookedBy,
		RemoteEventID: in.RemoteEventID,
	}

	if in.BookedAt != nil {
		bookedAt, err := time.Parse(time.RFC3339, *in.BookedAt)
		if err != nil {
			return nil, err
		}
		slot.BookedAt = &bookedAt
	}

	return slot, nil
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`    // "2025-09-01"
	DayName       string  `json:"dayName"` // "Monday"
	TimeOfDay     string  `json:"time"`    // "10:00"
	Available     bool    `json:"available"`
	BookedBy      *string `json:"bookedBy,omitempty"`
	BookedAt      *string `json:"bookedAt,omitempty"` // ISO 8601
	RemoteEventID *string `json:"remoteEventId,omitempty"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// SyncResult результат синхронизации с внешним календарём
type SyncResult struct {
	Checked         int  `json:"checked"`
	MarkedBooked    int  `json:"markedBooked"`
	MarkedAvailable int  `json:"markedAvailable"`
	Skipped         bool `json:"skipped"` // true, если календарь был недоступен и синхронизация не выполнялась
}

// ClearResult результат массового удаления слотов
type ClearResult struct {
	Deleted int64 `json:"deleted"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	resp := &SlotResponse{
		ID:            s.ID,
		Date:          s.Date.Format(domain.DateFormat),
		DayName:       s.DayName,
		TimeOfDay:     s.TimeOfDay.String(),
		Available:     s.Available,
		BookedBy:      s.BookedBy,
		RemoteEventID: s.RemoteEventID,
	}

	if s.BookedAt != nil {
		bookedStr := s.BookedAt.Format(time.RFC3339)
		resp.BookedAt = &bookedStr
	}

	return resp
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
