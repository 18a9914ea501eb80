package predictor

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse сервер ответил 2xx, но тело не похоже на результат предсказания.
var ErrMalformedResponse = errors.New("malformed prediction response")

// APIError ответ сервера с кодом вне диапазона 2xx.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}
