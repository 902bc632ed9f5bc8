package calendarservice

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено во внешнем календаре
	ErrEventNotFound = errors.New("calendarservice: event not found")

	// ErrServiceUnavailable возвращается, когда внешний календарь недоступен
	// (сеть, авторизация, квоты); текст ошибки провайдера сохраняется в обёртке
	ErrServiceUnavailable = errors.New("calendarservice: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе внешнего календаря
	ErrInvalidResponse = errors.New("calendarservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarservice: internal error")
)
