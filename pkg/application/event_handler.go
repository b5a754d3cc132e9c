package application

import (
	"context"

	"github.com/mateusmacedo/go-sleeper/pkg/domain"
)

type EventHandler[E domain.Event[T], T any] interface {
	Handle(ctx context.Context, event E) error
}

type EventHandlerFunc[E domain.Event[T], T any] func(ctx context.Context, event E) error

func (f EventHandlerFunc[E, T]) Handle(ctx context.Context, event E) error {
	return f(ctx, event)
}

// EventBus aceita vários handlers por nome de evento. Um erro de handler chega ao publicador
// apenas nos barramentos síncronos; os transportes assíncronos reentregam a mensagem.
type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D])
	Publish(ctx context.Context, event E) error
}
