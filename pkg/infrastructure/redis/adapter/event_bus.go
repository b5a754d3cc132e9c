package adapter

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	watermillAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/watermill/adapter"
)

type Config struct {
	ConsumerGroup string
	Consumer      string
}

func NewRedisEventBus[E domain.Event[D], D any](client redis.UniversalClient, cfg Config, logger application.AppLogger) (*watermillAdapter.EventBus[E, D], error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create redis publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: cfg.ConsumerGroup,
		Consumer:      cfg.Consumer,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("create redis subscriber: %w", err)
	}

	return watermillAdapter.NewEventBus[E, D](publisher, subscriber, logger), nil
}
