// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"exercise_tracker/internal/feature/tracker/domain/entity"
	"exercise_tracker/internal/feature/tracker/usecase"
)

const (
	TypeUserRegistered = "user.registered"
	TypeExerciseLogged = "exercise.logged"

	DefaultTopicUsers     = "tracker.users"
	DefaultTopicExercises = "tracker.exercises"
)

// UserRegisteredEvent is the payload published on the users topic.
type UserRegisteredEvent struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"userId"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ExerciseLoggedEvent is the payload published on the exercises topic.
type ExerciseLoggedEvent struct {
	Type        string    `json:"type"`
	UserID      uint      `json:"userId"`
	ExerciseID  uint      `json:"exerciseId"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        string    `json:"date"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds the publisher settings.
type Config struct {
	Brokers        []string
	TopicUsers     string
	TopicExercises string
	PublishTimeout time.Duration
}

// KafkaPublisher lazily manages one writer per topic.
type KafkaPublisher struct {
	cfg       Config
	newWriter func(topic string) messageWriter
	now       func() time.Time

	mu      sync.Mutex
	writers map[string]messageWriter
}

var _ usecase.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a KafkaPublisher. Empty topics and timeout fall back to defaults.
func NewKafkaPublisher(cfg Config) *KafkaPublisher {
	if cfg.TopicUsers == "" {
		cfg.TopicUsers = DefaultTopicUsers
	}
	if cfg.TopicExercises == "" {
		cfg.TopicExercises = DefaultTopicExercises
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	p := &KafkaPublisher{
		cfg:     cfg,
		now:     time.Now,
		writers: make(map[string]messageWriter),
	}
	p.newWriter = func(topic string) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(p.cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
			WriteTimeout: p.cfg.PublishTimeout,
		}
	}
	return p
}

// UserRegistered publishes a user.registered event.
func (p *KafkaPublisher) UserRegistered(ctx context.Context, user entity.User) error {
	return p.publish(ctx, p.cfg.TopicUsers, user.ID, UserRegisteredEvent{
		Type:       TypeUserRegistered,
		UserID:     user.ID,
		Username:   user.Username,
		OccurredAt: p.now().UTC(),
	})
}

// ExerciseLogged publishes an exercise.logged event.
func (p *KafkaPublisher) ExerciseLogged(ctx context.Context, e entity.Exercise) error {
	return p.publish(ctx, p.cfg.TopicExercises, e.UserID, ExerciseLoggedEvent{
		Type:        TypeExerciseLogged,
		UserID:      e.UserID,
		ExerciseID:  e.ID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
		OccurredAt:  p.now().UTC(),
	})
}

// Messages of one user share a key so they land on the same partition in order.
func (p *KafkaPublisher) publish(ctx context.Context, topic string, userID uint, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(userID), 10)),
		Value: value,
	}
	if err := p.writerForTopic(topic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
