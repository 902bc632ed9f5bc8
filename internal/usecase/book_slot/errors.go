package book_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже забронирован
	ErrSlotNotAvailable = errors.New("book_slot: slot is already booked")

	// ErrCalendarUnavailable возвращается, когда внешний календарь недоступен
	// Бронирование при этом не выполняется - слот остаётся свободным
	ErrCalendarUnavailable = errors.New("book_slot: calendar service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("book_slot: internal error")
)
