package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict with current state")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrExternalService   = errors.New("external service failure")
)

// FieldError describe un error asociado a un campo concreto del payload (nombre JSON).
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError agrupa los errores de campo de una misma petición.
// errors.Is(err, ErrInvalidInput) es true para cualquier ValidationError.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// NewValidationError construye un ValidationError con mensaje general y errores de campo.
func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// FieldInvalid atajo para un único campo inválido.
func FieldInvalid(field, msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: []FieldError{{Field: field, Error: msg}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	if e.Message == "" {
		return strings.Join(parts, "; ")
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add agrega un error de campo.
func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Error: msg})
}

// HasErrors indica si se registró al menos un error de campo.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// StateError transición de estado no permitida (p. ej. pagar una factura CANCELLED).
type StateError struct {
	Entity string
	From   string
	To     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

// Is permite errors.Is(err, domain.ErrInvalidState).
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}
