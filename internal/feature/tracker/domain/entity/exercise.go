package entity

import "time"

// Exercise is a single logged exercise entry belonging to a user.
type Exercise struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Date        string    `json:"date"`     // YYYY-MM-DD
	CreatedAt   time.Time `json:"createdAt"`
}

// ExerciseInput is the untrusted payload of an exercise-logging request.
//
// Description is nil when it was absent or not a string.
// Duration and Date hold the raw textual value; an empty string means absent.
type ExerciseInput struct {
	Description *string
	Duration    string
	Date        string
}

// LogQuery holds the raw, unvalidated query parameters of a log request.
// Empty strings mean the parameter was not given.
type LogQuery struct {
	From  string
	To    string
	Limit string
}

// LogFilter is a validated LogQuery.
// Empty From/To and a zero Limit mean the corresponding filter is not applied.
type LogFilter struct {
	From  string
	To    string
	Limit int
}

// ExerciseLog is the result of a log query: the user, the matching entries
// (possibly truncated by the limit) and the total number of matching entries.
type ExerciseLog struct {
	User    User
	Entries []Exercise
	Count   int64
}
