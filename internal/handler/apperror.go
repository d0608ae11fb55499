package handler

import "net/http"

type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidSignature = &AppError{http.StatusUnauthorized, "Webhook signature is invalid"}
	ErrInvalidPayload   = &AppError{http.StatusInternalServerError, "Webhook payload could not be processed"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "An unexpected error occurred"}
)
