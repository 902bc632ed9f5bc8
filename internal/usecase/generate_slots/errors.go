package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrAborted возвращается, когда генерация прервана отменой контекста
	// Частичный результат при этом сохраняется
	ErrAborted = errors.New("generate_slots: generation aborted")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("generate_slots: internal error")
)
