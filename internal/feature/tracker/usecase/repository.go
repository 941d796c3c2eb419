package usecase

import (
	"context"

	"exercise_tracker/internal/feature/tracker/domain/entity"
)

// UserRepository はユーザーの永続化層を抽象化します。
// Goの慣習に従い、インターフェースは利用側（usecase）で定義します。
type UserRepository interface {
	// Create は新しいユーザーを保存し、ID と CreatedAt を設定します。
	// ユーザー名が使用済みの場合は ErrDuplicateUsername を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID はユーザーが存在しない場合 ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByUsername はユーザーが存在しない場合 ErrUserNotFound を返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// List は全ユーザーをID昇順で返します。
	List(ctx context.Context) ([]entity.User, error)
}

// ExerciseRepository はエクササイズ記録の永続化層を抽象化します。
type ExerciseRepository interface {
	// Create は新しい記録を保存し、ID と CreatedAt を設定します。
	// UserID が既存ユーザーを指すことは呼び出し側が保証します。
	Create(ctx context.Context, exercise *entity.Exercise) error

	// FindByID は記録が存在しない場合 ErrExerciseNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Exercise, error)

	// ListByUser はフィルタの日付範囲（両端含む）に一致する記録を日付順・登録順で返します。
	// filter.Limit が正の場合はその件数に切り詰めます。
	ListByUser(ctx context.Context, userID uint, filter entity.LogFilter) ([]entity.Exercise, error)

	// CountByUser は Limit を無視して日付範囲に一致する記録数を返します。
	CountByUser(ctx context.Context, userID uint, filter entity.LogFilter) (int64, error)
}

// EventPublisher は完了した書き込みを外部へ通知します。
type EventPublisher interface {
	UserRegistered(ctx context.Context, user entity.User) error
	ExerciseLogged(ctx context.Context, exercise entity.Exercise) error
}

// Metrics はドメインのカウンタを受け取ります。
type Metrics interface {
	UserRegistered()
	ExerciseLogged()
}
