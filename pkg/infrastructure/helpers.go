package infrastructure

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNoHandler = errors.New("no handler registered")

func GenerateUUID() string {
	return uuid.New().String()
}

// DynamicEvent reconstrói um evento a partir de uma mensagem recebida por um transporte.
type DynamicEvent[D any] struct {
	eventName string
	payload   D
}

func NewDynamicEvent[D any](eventName string, payload D) *DynamicEvent[D] {
	return &DynamicEvent[D]{eventName: eventName, payload: payload}
}

func (e *DynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *DynamicEvent[D]) Payload() D {
	return e.payload
}
