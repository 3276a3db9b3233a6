package models

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope — единый формат ответа API: {success, data|error, fallback}.
type Envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Fallback bool   `json:"fallback"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteFallback помечает ответ как собранный из статических данных.
func WriteFallback(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data, Fallback: true})
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Envelope{Success: false, Error: msg})
}

// WriteFromError переводит доменную ошибку в HTTP-статус и пишет ответ.
func WriteFromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRange):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAuthRequired), errors.Is(err, ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPermission):
		WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRoomUnavailable),
		errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrAccountExists):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		// в том числе ErrStoreUnavailable: мутации в fallback-режиме падают жёстко
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
