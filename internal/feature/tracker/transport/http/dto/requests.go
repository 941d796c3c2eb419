package dto

import "exercise_tracker/internal/feature/tracker/domain/entity"

// CreateUserRequest は POST /api/users のリクエストボディです。
type CreateUserRequest struct {
	Username Scalar `json:"username" form:"username"`
}

// CreateExerciseRequest は POST /api/users/:_id/exercises のリクエストボディです。
// durationは数値でも文字列でも受け付けます。
type CreateExerciseRequest struct {
	Description Scalar `json:"description" form:"description"`
	Duration    Scalar `json:"duration" form:"duration"`
	Date        Scalar `json:"date" form:"date"`
}

// ToInput はユースケース層の入力に変換します。
func (r CreateExerciseRequest) ToInput() entity.ExerciseInput {
	return entity.ExerciseInput{
		Description: r.Description.StringPtr(),
		Duration:    r.Duration.Raw(),
		Date:        r.Date.Raw(),
	}
}
