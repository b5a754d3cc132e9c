package adapter

import (
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/go-sleeper/pkg/application"
	"github.com/mateusmacedo/go-sleeper/pkg/domain"
	watermillAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/watermill/adapter"
)

type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
}

func NewKafkaEventBus[E domain.Event[D], D any](cfg Config, logger application.AppLogger) (*watermillAdapter.EventBus[E, D], error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = cfg.ClientID

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         cfg.ConsumerGroup,
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("create kafka subscriber: %w", err)
	}

	return watermillAdapter.NewEventBus[E, D](publisher, subscriber, logger), nil
}
