package di

import (
	"exercise_tracker/internal/feature/tracker/usecase"
	"exercise_tracker/internal/platform/config"
	"exercise_tracker/internal/platform/events"
)

// EventPublisher is a usecase.EventPublisher that owns resources released at shutdown.
type EventPublisher interface {
	usecase.EventPublisher
	Close() error
}

// NewEventPublisher returns a Kafka-backed publisher when brokers are configured,
// otherwise a publisher that drops every event.
func NewEventPublisher(cfg config.KafkaConfig) EventPublisher {
	if len(cfg.Brokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(events.Config{
		Brokers:        cfg.Brokers,
		TopicUsers:     cfg.TopicUsers,
		TopicExercises: cfg.TopicExercises,
		PublishTimeout: cfg.PublishTimeout,
	})
}
