package infrastructure_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	"github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

type greeting struct{ Name string }

type greetCommand struct{ data greeting }

func (c greetCommand) CommandName() string { return "greet" }
func (c greetCommand) Payload() greeting   { return c.data }

type greetQuery struct{ data greeting }

func (q greetQuery) QueryName() string { return "greet" }
func (q greetQuery) Payload() greeting { return q.data }

func TestSimpleCommandBus_Dispatch(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	bus := infrastructure.NewSimpleCommandBus[domain.Command[greeting], greeting](logger)

	err := bus.Dispatch(context.Background(), greetCommand{data: greeting{Name: "x"}})
	assert.ErrorIs(t, err, infrastructure.ErrNoHandler)

	handlerErr := errors.New("rejected")
	var received string
	bus.RegisterHandler("greet", application.CommandHandlerFunc[domain.Command[greeting], greeting](func(ctx context.Context, c domain.Command[greeting]) error {
		received = c.Payload().Name
		if received == "bad" {
			return handlerErr
		}
		return nil
	}))

	require.NoError(t, bus.Dispatch(context.Background(), greetCommand{data: greeting{Name: "asha"}}))
	assert.Equal(t, "asha", received)
	assert.ErrorIs(t, bus.Dispatch(context.Background(), greetCommand{data: greeting{Name: "bad"}}), handlerErr)
}

func TestSimpleQueryBus_Dispatch(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	bus := infrastructure.NewSimpleQueryBus[domain.Query[greeting], greeting, string](logger)

	_, err := bus.Dispatch(context.Background(), greetQuery{})
	assert.ErrorIs(t, err, infrastructure.ErrNoHandler)

	bus.RegisterHandler("greet", application.QueryHandlerFunc[domain.Query[greeting], greeting, string](func(ctx context.Context, q domain.Query[greeting]) (string, error) {
		return "hello " + q.Payload().Name, nil
	}))

	result, err := bus.Dispatch(context.Background(), greetQuery{data: greeting{Name: "ravi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello ravi", result)
}

func TestSimpleQueryBus_DispatchHonoursContext(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	bus := infrastructure.NewSimpleQueryBus[domain.Query[greeting], greeting, string](logger)

	release := make(chan struct{})
	defer close(release)
	bus.RegisterHandler("greet", application.QueryHandlerFunc[domain.Query[greeting], greeting, string](func(ctx context.Context, q domain.Query[greeting]) (string, error) {
		<-release
		return "late", nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := bus.Dispatch(ctx, greetQuery{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimpleEventBus_PublishRunsEveryHandler(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	bus := infrastructure.NewSimpleEventBus[domain.Event[greeting], greeting](logger)

	require.NoError(t, bus.Publish(context.Background(), infrastructure.NewDynamicEvent("greeted", greeting{})))

	var calls atomic.Int32
	handlerErr := errors.New("audit failed")
	bus.RegisterHandler("greeted", application.EventHandlerFunc[domain.Event[greeting], greeting](func(ctx context.Context, e domain.Event[greeting]) error {
		calls.Add(1)
		return nil
	}))
	bus.RegisterHandler("greeted", application.EventHandlerFunc[domain.Event[greeting], greeting](func(ctx context.Context, e domain.Event[greeting]) error {
		calls.Add(1)
		return handlerErr
	}))

	err := bus.Publish(context.Background(), infrastructure.NewDynamicEvent("greeted", greeting{Name: "x"}))

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateUUID(t *testing.T) {
	a, b := infrastructure.GenerateUUID(), infrastructure.GenerateUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
