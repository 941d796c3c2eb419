// Package adapters はtrackerフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"exercise_tracker/internal/feature/tracker/domain/entity"
)

// UserModel is the GORM row of the users table.
type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"size:100;not null;uniqueIndex:idx_users_username"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// 親ユーザーの削除時にエントリも削除される
	Exercises []ExerciseModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (UserModel) TableName() string {
	return "users"
}

// ExerciseModel is the GORM row of the exercises table.
type ExerciseModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"not null;index:idx_exercises_user_id"`
	Description string    `gorm:"size:500;not null"`
	Duration    int       `gorm:"not null"`
	Date        string    `gorm:"size:10;not null;index:idx_exercises_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (ExerciseModel) TableName() string {
	return "exercises"
}

// Models returns the models to pass to AutoMigrate, parents first.
func Models() []any {
	return []any{&UserModel{}, &ExerciseModel{}}
}

func toUser(m UserModel) entity.User {
	return entity.User{ID: m.ID, Username: m.Username, CreatedAt: m.CreatedAt}
}

func toExercise(m ExerciseModel) entity.Exercise {
	return entity.Exercise{
		ID:          m.ID,
		UserID:      m.UserID,
		Description: m.Description,
		Duration:    m.Duration,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
	}
}
