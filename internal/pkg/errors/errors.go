package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrStore используется, когда хранилище вернуло ошибку при создании
	// или удалении записи. Точная причина клиенту не сообщается,
	// хендлер переводит её в generic "unprocessable".
	ErrStore = errors.New("store operation failed")
)
