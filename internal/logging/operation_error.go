package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// OperationError ошибка инфраструктурного вызова с именем операции и ID запроса
type OperationError struct {
	Operation string
	RequestID string
	Err       error
}

func (e *OperationError) Error() string {
	switch {
	case e == nil || e.Err == nil:
		return ""
	case e.RequestID == "":
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Operation, e.RequestID, e.Err)
	}
}

// Unwrap нужен для errors.Is/As
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError оборачивает err; nil остаётся nil.
func NewOperationError(operation, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, RequestID: requestID, Err: err}
}

// ErrorFields поля для лога: сама ошибка и, если есть, операция и ID запроса.
func ErrorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		fields = append(fields, zap.String("operation", opErr.Operation))
		if opErr.RequestID != "" {
			fields = append(fields, zap.String("request_id", opErr.RequestID))
		}
	}
	return fields
}
