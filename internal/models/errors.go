package models

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки уровня домена. Обработчики переводят их в HTTP-статусы,
// сервисы оборачивают через fmt.Errorf("verb: %w", err).
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrInvalidRange = errors.New("check-out date must be after check-in date")
)

var (
	ErrRoomUnavailable  = errors.New("room is not available for the selected dates")
	ErrSlotTaken        = errors.New("this time slot is already booked")
	ErrAlreadyCancelled = errors.New("already cancelled")
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrAccountExists      = errors.New("email or username already registered, please login first")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthRequired       = errors.New("authentication required")
	ErrPermission         = errors.New("permission denied")
)

// ErrStoreUnavailable — хранилище недоступно (fallback-режим):
// мутации не выполняем, читаем только статические данные.
var ErrStoreUnavailable = errors.New("storage unavailable")

// MissingFieldsError строит ошибку валидации со списком пропущенных полей.
func MissingFieldsError(fields []string) error {
	return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(fields, ", "))
}
