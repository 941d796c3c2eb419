package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"exercise_tracker/internal/feature/tracker/domain"
	"exercise_tracker/internal/feature/tracker/domain/entity"
)

// TrackerUsecase は入力を検証し、エクササイズトラッカーの業務ルールを適用して
// リポジトリの結果を返却用の形に組み立てます。呼び出し間で状態は持ちません。
type TrackerUsecase struct {
	users     UserRepository
	exercises ExerciseRepository
	events    EventPublisher
	metrics   Metrics
	now       func() time.Time
}

// NewTrackerUsecase は TrackerUsecase を生成します。events と metrics は nil でも構いません。
func NewTrackerUsecase(users UserRepository, exercises ExerciseRepository, events EventPublisher, metrics Metrics) *TrackerUsecase {
	return &TrackerUsecase{
		users:     users,
		exercises: exercises,
		events:    events,
		metrics:   metrics,
		now:       time.Now,
	}
}

// CreateUser は新しいユーザーを登録します。
func (u *TrackerUsecase) CreateUser(ctx context.Context, username *string) (*entity.User, error) {
	name, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Username: name}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, domain.DuplicateUsername(err)
		}
		return nil, domain.Internal("Failed to create user", err)
	}

	if u.metrics != nil {
		u.metrics.UserRegistered()
	}
	if u.events != nil {
		if err := u.events.UserRegistered(ctx, *user); err != nil {
			slog.Warn("failed to publish user event", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// GetAllUsers は全ユーザーをID順で返します。
func (u *TrackerUsecase) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, domain.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

// CreateExercise は既存ユーザーのエクササイズを記録します。
func (u *TrackerUsecase) CreateExercise(ctx context.Context, rawUserID string, in entity.ExerciseInput) (*entity.Exercise, error) {
	user, err := u.findUser(ctx, rawUserID)
	if err != nil {
		return nil, err
	}

	description, duration, date, err := ValidateExerciseData(in, u.now)
	if err != nil {
		return nil, err
	}

	exercise := &entity.Exercise{
		UserID:      user.ID,
		Description: description,
		Duration:    duration,
		Date:        date,
	}
	if err := u.exercises.Create(ctx, exercise); err != nil {
		return nil, domain.Internal("Failed to create exercise", err)
	}

	if u.metrics != nil {
		u.metrics.ExerciseLogged()
	}
	if u.events != nil {
		if err := u.events.ExerciseLogged(ctx, *exercise); err != nil {
			slog.Warn("failed to publish exercise event", "user_id", user.ID, "exercise_id", exercise.ID, "error", err)
		}
	}
	return exercise, nil
}

// GetUserExerciseLogs はクエリで絞り込んだ記録と、limit に関係なく
// 日付範囲に一致する件数を返します。
func (u *TrackerUsecase) GetUserExerciseLogs(ctx context.Context, rawUserID string, q entity.LogQuery) (*entity.ExerciseLog, error) {
	user, err := u.findUser(ctx, rawUserID)
	if err != nil {
		return nil, err
	}

	filter, err := ValidateQueryParams(q)
	if err != nil {
		return nil, err
	}

	entries, err := u.exercises.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, domain.Internal("Failed to retrieve exercise logs", err)
	}
	count, err := u.exercises.CountByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, domain.Internal("Failed to retrieve exercise logs", err)
	}

	return &entity.ExerciseLog{User: *user, Entries: entries, Count: count}, nil
}

// findUser はIDを検証し、対象ユーザーを取得します。
func (u *TrackerUsecase) findUser(ctx context.Context, rawUserID string) (*entity.User, error) {
	id, err := ValidateUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal("Failed to retrieve user", err)
	}
	return user, nil
}
