package application

import (
	"context"

	"github.com/mateusmacedo/go-sleeper/pkg/domain"
)

// CommandHandler define a interface para manipuladores de comando.
type CommandHandler[C domain.Command[T], T any] interface {
	Handle(ctx context.Context, command C) error
}

// CommandHandlerFunc permite registrar uma função simples como handler.
type CommandHandlerFunc[C domain.Command[T], T any] func(ctx context.Context, command C) error

func (f CommandHandlerFunc[C, T]) Handle(ctx context.Context, command C) error {
	return f(ctx, command)
}

// CommandBus entrega cada comando ao único handler registrado para o seu nome.
type CommandBus[C domain.Command[T], T any] interface {
	RegisterHandler(commandName string, handler CommandHandler[C, T])
	Dispatch(ctx context.Context, command C) error
}
