// Package apperr определяет ошибки уровня приложения и их отображение
// в HTTP-статусы. Сервисы возвращают ошибки, обёрнутые вокруг этих
// сентинелов, а обработчики переводят их в ответ клиенту.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied — у пользователя нет прав на действие.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrValidation — некорректные входные данные.
	ErrValidation = errors.New("invalid input")
	// ErrProvider — сбой внешнего платёжного провайдера.
	// Платёж при такой ошибке не сохраняется.
	ErrProvider = errors.New("payment provider failure")
	// ErrAlreadyExists — нарушение уникальности в хранилище.
	ErrAlreadyExists = errors.New("already exists")
)

// NotFound оборачивает ErrNotFound с описанием сущности.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// PermissionDenied оборачивает ErrPermissionDenied с причиной отказа.
func PermissionDenied(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrPermissionDenied)
}

// Validation оборачивает ErrValidation с описанием нарушения.
func Validation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}

// HTTPStatus возвращает HTTP-статус, соответствующий ошибке приложения.
// Неизвестные ошибки считаются внутренними.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
