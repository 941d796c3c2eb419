package dto

import "exercise_tracker/internal/feature/tracker/domain/entity"

// ErrorResponse はすべてのエラーレスポンスの形式です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse はユーザー1件を表します。
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ExerciseResponse はエクササイズ登録の結果です。
type ExerciseResponse struct {
	UserID      uint   `json:"userId"`
	ExerciseID  uint   `json:"exerciseId"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntry はログ内の1エントリです。
type LogEntry struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogResponse は GET /api/users/:_id/logs のレスポンスです。
type LogResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Logs     []LogEntry `json:"logs"`
	Count    int64      `json:"count"`
}

func NewUserResponse(u entity.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

// NewUserListResponse は空でも [] を返すようにスライスを初期化します。
func NewUserListResponse(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

func NewExerciseResponse(e entity.Exercise) ExerciseResponse {
	return ExerciseResponse{
		UserID:      e.UserID,
		ExerciseID:  e.ID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
	}
}

func NewLogResponse(l entity.ExerciseLog) LogResponse {
	logs := make([]LogEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		logs = append(logs, LogEntry{
			ID:          e.ID,
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		})
	}
	return LogResponse{
		ID:       l.User.ID,
		Username: l.User.Username,
		Logs:     logs,
		Count:    l.Count,
	}
}
