package view

import (
	"errors"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/infrastructure/predictor"
)

// Alert модальное сообщение для пользователя.
type Alert struct {
	Title   string
	Message string
}

func (a Alert) String() string {
	return a.Title + ": " + a.Message
}

// AlertFor переводит ошибку действия пользователя в сообщение.
// nil означает, что показывать нечего.
func AlertFor(err error) *Alert {
	var apiErr *predictor.APIError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrAnalysisInFlight), errors.Is(err, entity.ErrStaleResult):
		return nil
	case errors.Is(err, entity.ErrPermissionDenied):
		return &Alert{Title: "Permission required", Message: "Please allow access to your photo library."}
	case errors.Is(err, entity.ErrNoImageSelected):
		return &Alert{Title: "No image", Message: "Pick an image first."}
	case errors.As(err, &apiErr):
		return &Alert{Title: "Error", Message: apiErr.Error()}
	}

	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	return &Alert{Title: "Error", Message: msg}
}
