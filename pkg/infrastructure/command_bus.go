package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
)

// simpleCommandBus despacha comandos de forma síncrona, devolvendo o erro do handler ao chamador.
type simpleCommandBus[C domain.Command[D], D any] struct {
	handlers map[string]application.CommandHandler[C, D]
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleCommandBus[C domain.Command[D], D any](logger application.AppLogger) application.CommandBus[C, D] {
	return &simpleCommandBus[C, D]{
		handlers: make(map[string]application.CommandHandler[C, D]),
		logger:   logger,
	}
}

func (bus *simpleCommandBus[C, D]) RegisterHandler(commandName string, handler application.CommandHandler[C, D]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[commandName] = handler
}

// Dispatch devolve ao chamador o erro do handler sem embrulhá-lo.
func (bus *simpleCommandBus[C, D]) Dispatch(ctx context.Context, command C) error {
	bus.mu.RLock()
	handler, found := bus.handlers[command.CommandName()]
	bus.mu.RUnlock()

	if !found {
		application.LogError(ctx, bus.logger, "no handler registered for command", ErrNoHandler, map[string]interface{}{
			"command_name": command.CommandName(),
		})
		return fmt.Errorf("%w: %s", ErrNoHandler, command.CommandName())
	}

	if err := handler.Handle(ctx, command); err != nil {
		application.LogDebug(ctx, bus.logger, "command rejected", map[string]interface{}{
			"command_name": command.CommandName(),
			"error":        err.Error(),
		})
		return err
	}

	application.LogTrace(ctx, bus.logger, "command handled", map[string]interface{}{
		"command_name": command.CommandName(),
	})
	return nil
}
