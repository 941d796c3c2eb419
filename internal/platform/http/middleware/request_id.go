// Package middleware はアプリ全体で使うgin middlewareを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエスト追跡に使うヘッダー名です。
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID は受信したX-Request-IDを引き継ぎ、無ければUUIDv7を生成します。
// IDはレスポンスヘッダーとginコンテキストの両方に設定されます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID はコンテキストに保存されたリクエストIDを返します。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
