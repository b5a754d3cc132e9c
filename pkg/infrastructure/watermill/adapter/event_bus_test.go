package adapter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	"github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

type seatEvent struct {
	BookingID string `json:"bookingId"`
	Seats     []int  `json:"seats"`
}

type seatEventHandler struct {
	received chan seatEvent
	failures atomic.Int32
	failFor  int32
}

func (h *seatEventHandler) Handle(ctx context.Context, e domain.Event[seatEvent]) error {
	if h.failures.Add(1) <= h.failFor {
		return errors.New("temporarily unavailable")
	}
	h.received <- e.Payload()
	return nil
}

func newTestBus(t *testing.T) *EventBus[domain.Event[seatEvent], seatEvent] {
	t.Helper()
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, NewWatermillLoggerAdapter(logger))
	bus := NewEventBus[domain.Event[seatEvent], seatEvent](pubSub, pubSub, logger)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestEventBus_DeliversPublishedEvent(t *testing.T) {
	bus := newTestBus(t)
	handler := &seatEventHandler{received: make(chan seatEvent, 1)}
	bus.RegisterHandler("booking.confirmed", handler)

	err := bus.Publish(context.Background(), infrastructure.NewDynamicEvent("booking.confirmed", seatEvent{BookingID: "b-1", Seats: []int{1, 2}}))
	require.NoError(t, err)

	select {
	case got := <-handler.received:
		assert.Equal(t, seatEvent{BookingID: "b-1", Seats: []int{1, 2}}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_RedeliversAfterHandlerError(t *testing.T) {
	bus := newTestBus(t)
	handler := &seatEventHandler{received: make(chan seatEvent, 1), failFor: 1}
	bus.RegisterHandler("booking.cancelled", handler)

	require.NoError(t, bus.Publish(context.Background(), infrastructure.NewDynamicEvent("booking.cancelled", seatEvent{BookingID: "b-2"})))

	select {
	case got := <-handler.received:
		assert.Equal(t, "b-2", got.BookingID)
		assert.Equal(t, int32(2), handler.failures.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not redelivered")
	}
}

func TestEventBus_PublishSetsEventName(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	bus := NewEventBus[domain.Event[seatEvent], seatEvent](pubSub, pubSub, logger)
	defer bus.Close()

	messages, err := pubSub.Subscribe(context.Background(), "booking.confirmed")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), infrastructure.NewDynamicEvent("booking.confirmed", seatEvent{BookingID: "b-3"})))

	select {
	case msg := <-messages:
		assert.Equal(t, "booking.confirmed", msg.Metadata.Get(eventNameMetadataKey))
		assert.JSONEq(t, `{"bookingId":"b-3","seats":null}`, string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message was not published")
	}
}

func TestEventBus_DropsUndecodablePayload(t *testing.T) {
	bus := newTestBus(t)
	handler := &seatEventHandler{received: make(chan seatEvent, 1)}
	bus.RegisterHandler("booking.confirmed", handler)

	require.NoError(t, bus.publisher.Publish("booking.confirmed", message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	select {
	case <-handler.received:
		t.Fatal("handler must not see an undecodable payload")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, int32(0), handler.failures.Load())
}
