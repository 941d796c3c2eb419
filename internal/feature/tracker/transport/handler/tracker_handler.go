// Package handler はtrackerフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"exercise_tracker/internal/feature/tracker/domain"
	"exercise_tracker/internal/feature/tracker/domain/entity"
	"exercise_tracker/internal/feature/tracker/transport/http/dto"
)

// TrackerUsecase はユーザーとエクササイズログのユースケースを定義します。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type TrackerUsecase interface {
	CreateUser(ctx context.Context, username *string) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]entity.User, error)
	CreateExercise(ctx context.Context, userID string, in entity.ExerciseInput) (*entity.Exercise, error)
	GetUserExerciseLogs(ctx context.Context, userID string, q entity.LogQuery) (*entity.ExerciseLog, error)
}

// TrackerHandler はtracker APIのHTTPリクエストを処理します。
type TrackerHandler struct {
	uc TrackerUsecase
}

// NewTrackerHandler はTrackerHandlerの新しいインスタンスを生成します。
func NewTrackerHandler(uc TrackerUsecase) *TrackerHandler {
	return &TrackerHandler{uc: uc}
}

// CreateUser は POST /api/users を処理します。
// JSONまたはフォームの username を受け取り、成功時は200で {id, username} を返却します。
func (h *TrackerHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("create user binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.uc.CreateUser(c.Request.Context(), req.Username.StringPtr())
	if err != nil {
		writeError(c, "create user", err)
		return
	}
	slog.Info("user created", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// ListUsers は GET /api/users を処理します。
func (h *TrackerHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.GetAllUsers(c.Request.Context())
	if err != nil {
		writeError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// CreateExercise は POST /api/users/:_id/exercises を処理します。
func (h *TrackerHandler) CreateExercise(c *gin.Context) {
	var req dto.CreateExerciseRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("create exercise binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	e, err := h.uc.CreateExercise(c.Request.Context(), c.Param("_id"), req.ToInput())
	if err != nil {
		writeError(c, "create exercise", err)
		return
	}
	slog.Info("exercise created", "user_id", e.UserID, "exercise_id", e.ID)
	c.JSON(http.StatusOK, dto.NewExerciseResponse(*e))
}

// GetLogs は GET /api/users/:_id/logs を処理します。
// from/to/limit は任意で、空文字は未指定として扱います。
func (h *TrackerHandler) GetLogs(c *gin.Context) {
	q := entity.LogQuery{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: c.Query("limit"),
	}
	log, err := h.uc.GetUserExerciseLogs(c.Request.Context(), c.Param("_id"), q)
	if err != nil {
		writeError(c, "get logs", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLogResponse(*log))
}

// writeError はエラー種別をHTTPステータスに変換します。
// Internalの詳細はクライアントへ公開しません。
func writeError(c *gin.Context, op string, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindNotFound:
		slog.Info(op+" failed", "kind", kind.String(), "error", err)
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domain.MessageOf(err)})
	case domain.KindInvalidInput, domain.KindDuplicateUsername:
		slog.Info(op+" failed", "kind", kind.String(), "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MessageOf(err)})
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
