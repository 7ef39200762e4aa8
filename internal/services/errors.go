package services

import (
	"errors"
	"fmt"

	"github.com/sistema-educativo/alumnos-service/internal/validator"
)

var (
	ErrNotFound         = errors.New("alumno no encontrado")
	ErrDuplicate        = errors.New("registro duplicado")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidFile      = errors.New("archivo inválido")
)

// ValidationError carries the field-level failures of a request
type ValidationError struct {
	Errors validator.ValidationErrors
}

func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	return e.Errors.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// DuplicateError reports a unique field collision
type DuplicateError struct {
	Field string
	Value string
}

func NewDuplicateError(field, value string) *DuplicateError {
	return &DuplicateError{Field: field, Value: value}
}

func (e *DuplicateError) Error() string {
	switch e.Field {
	case "curp":
		return "Ya existe un alumno con esta CURP"
	case "matricula":
		return fmt.Sprintf("La matrícula %s ya está asignada", e.Value)
	default:
		return fmt.Sprintf("Ya existe un alumno con %s %s", e.Field, e.Value)
	}
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// IsValidationError reports whether err carries field-level validation failures
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
