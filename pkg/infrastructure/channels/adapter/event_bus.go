package adapter

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	watermillAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/watermill/adapter"
)

// NewChannelsEventBus cria um barramento de eventos em memória sobre o gochannel do watermill.
func NewChannelsEventBus[E domain.Event[D], D any](bufferSize int64, logger application.AppLogger) *watermillAdapter.EventBus[E, D] {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: bufferSize,
	}, watermillAdapter.NewWatermillLoggerAdapter(logger))

	return watermillAdapter.NewEventBus[E, D](pubSub, pubSub, logger)
}
