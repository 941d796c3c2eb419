package events

import (
	"context"

	"exercise_tracker/internal/feature/tracker/domain/entity"
	"exercise_tracker/internal/feature/tracker/usecase"
)

// NopPublisher discards every event. It is used when no brokers are configured.
type NopPublisher struct{}

var _ usecase.EventPublisher = NopPublisher{}

func (NopPublisher) UserRegistered(context.Context, entity.User) error { return nil }

func (NopPublisher) ExerciseLogged(context.Context, entity.Exercise) error { return nil }

func (NopPublisher) Close() error { return nil }
