package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotNotBooked возвращается при попытке снять бронирование со свободного слота
	ErrSlotNotBooked = errors.New("slot is not booked")

	// ErrEventNotFound возвращается, когда событие не найдено во внешнем календаре
	ErrEventNotFound = errors.New("event not found")

	// ErrCalendarUnavailable возвращается, когда внешний календарь недоступен
	ErrCalendarUnavailable = errors.New("calendar service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
