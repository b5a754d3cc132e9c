package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrUnknownStation = errors.New("unknown station")
	ErrInvalidRoute   = errors.New("invalid route")
)

var (
	ErrSeatUnavailable     = errors.New("seat unavailable")
	ErrNotFound            = errors.New("not found")
	ErrBookingCancelled    = errors.New("booking is cancelled")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

var (
	ErrPersistence = errors.New("persistence error")
)

// ValidationError nomeia o campo inválido.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type StationError struct {
	StationID string
}

func (e *StationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.StationID)
}

func (e *StationError) Is(target error) bool {
	return target == ErrUnknownStation
}

// SeatUnavailableError lista cada assento pedido que conflita com um intervalo ativo.
type SeatUnavailableError struct {
	SeatIDs []int
}

func (e *SeatUnavailableError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("seats not available for the requested segment: %s", strings.Join(ids, ", "))
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// PersistenceFailure embrulha um erro do repositório para que quem chama case ErrPersistence.
func PersistenceFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
