package application

import (
	"context"

	"github.com/mateusmacedo/go-sleeper/pkg/domain"
)

// QueryHandler define a interface para manipuladores de consulta.
type QueryHandler[Q domain.Query[T], T any, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type QueryHandlerFunc[Q domain.Query[T], T any, R any] func(ctx context.Context, query Q) (R, error)

func (f QueryHandlerFunc[Q, T, R]) Handle(ctx context.Context, query Q) (R, error) {
	return f(ctx, query)
}

// QueryBus entrega a consulta ao handler do seu nome e devolve o resultado tipado.
type QueryBus[Q domain.Query[D], D any, R any] interface {
	RegisterHandler(queryName string, handler QueryHandler[Q, D, R])
	Dispatch(ctx context.Context, query Q) (R, error)
}
