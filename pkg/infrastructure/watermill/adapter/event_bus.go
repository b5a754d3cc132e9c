package adapter

import (
	"context"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	"github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
)

const eventNameMetadataKey = "event_name"

// EventBus publica eventos em um tópico watermill por nome de evento e entrega as mensagens
// consumidas aos handlers registrados. Cada nome de evento ganha uma única assinatura.
type EventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	mu         sync.RWMutex
	logger     application.AppLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *EventBus[E, D] {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler[E, D]),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (bus *EventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	_, subscribed := bus.handlers[eventName]
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if subscribed {
		return
	}

	messages, err := bus.subscriber.Subscribe(bus.ctx, eventName)
	if err != nil {
		application.LogError(bus.ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for msg := range messages {
			bus.dispatch(eventName, msg)
		}
	}()
}

func (bus *EventBus[E, D]) dispatch(eventName string, msg *message.Message) {
	ctx := msg.Context()

	payload, err := application.UnmarshalPayload[D](msg.Payload)
	if err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
			"message_id": msg.UUID,
		})
		// payload inválido nunca será processado, descartamos a mensagem
		msg.Ack()
		return
	}

	typedEvent, ok := interface{}(infrastructure.NewDynamicEvent(eventName, payload)).(E)
	if !ok {
		application.LogError(ctx, bus.logger, "error casting event", nil, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Ack()
		return
	}

	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, typedEvent); err != nil {
			application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
				"event_name": eventName,
				"message_id": msg.UUID,
			})
			msg.Nack()
			return
		}
	}

	application.LogDebug(ctx, bus.logger, "event handled", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	msg.Ack()
}

func (bus *EventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventNameMetadataKey, eventName)

	if err := bus.publisher.Publish(eventName, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	application.LogDebug(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	return nil
}

// Close encerra as assinaturas e fecha publisher e subscriber.
func (bus *EventBus[E, D]) Close() error {
	bus.cancel()
	err := errors.Join(bus.publisher.Close(), bus.subscriber.Close())
	bus.wg.Wait()
	return err
}
