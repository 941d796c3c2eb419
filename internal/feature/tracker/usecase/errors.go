// Package usecase はトラッカー機能の入力検証とユースケースを実装します。
package usecase

import "errors"

var (
	// ErrUserNotFound はユーザーが見つからない場合にリポジトリが返すエラーです。
	ErrUserNotFound = errors.New("user not found")

	// ErrExerciseNotFound はエクササイズが見つからない場合にリポジトリが返すエラーです。
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrDuplicateUsername はユーザー名の一意制約に違反した場合にリポジトリが返すエラーです。
	ErrDuplicateUsername = errors.New("username already exists")
)
