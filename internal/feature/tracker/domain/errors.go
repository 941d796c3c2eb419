// Package domain はトラッカー機能のドメインエラーを定義します。
package domain

import "errors"

// Kind はエラーの種別です。上位層はメッセージではなく種別で処理を分岐します。
type Kind int

const (
	// KindInternal は想定外の失敗（ストレージ障害やドライバエラーなど）です。
	// ゼロ値なので、分類されていないエラーは内部エラーとして扱われます。
	KindInternal Kind = iota
	// KindInvalidInput は不正または不足しているリクエストデータです。
	KindInvalidInput
	// KindNotFound は参照先が存在しないことを表します。
	KindNotFound
	// KindDuplicateUsername はユーザー名が使用済みであることを表します。
	KindDuplicateUsername
)

// String はログ用の短い種別名を返します。
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindDuplicateUsername:
		return "duplicate_username"
	default:
		return "internal"
	}
}

// Error は種別とメッセージを持つドメインエラーです。
type Error struct {
	Kind    Kind
	Message string
	// 原因となったエラー（任意）
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput は KindInvalidInput のエラーを返します。
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// NotFound は KindNotFound のエラーを返します。
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// DuplicateUsername は cause をラップした KindDuplicateUsername のエラーを返します。
func DuplicateUsername(cause error) *Error {
	return &Error{Kind: KindDuplicateUsername, Message: "Username already exists", Err: cause}
}

// Internal は cause をラップし、クライアントに返せるメッセージを持つ KindInternal のエラーを返します。
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf は err の種別を返します。*Error 以外は KindInternal です。
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf はクライアント向けメッセージを返します。*Error 以外は空文字です。
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
