package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise_tracker/internal/feature/tracker/adapters"
	trackerhandler "exercise_tracker/internal/feature/tracker/transport/handler"
	"exercise_tracker/internal/feature/tracker/usecase"
	"exercise_tracker/internal/platform/db"
	"exercise_tracker/internal/platform/events"
	"exercise_tracker/internal/platform/http/handler"
	"exercise_tracker/internal/platform/observability"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer はインメモリSQLiteを使った本番同等の構成でルーターを生成します。
func newTestServer(t *testing.T, opts Options) *gin.Engine {
	t.Helper()

	gdb, err := db.Open(db.Config{Path: ":memory:", RunMigrations: true}, adapters.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	uc := usecase.NewTrackerUsecase(adapters.NewUserRepository(gdb), adapters.NewExerciseRepository(gdb), events.NopPublisher{}, metrics)

	return NewRouter(trackerhandler.NewTrackerHandler(uc), handler.NewHealthHandler(sqlDB), metrics, opts)
}

func request(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func createUser(t *testing.T, r http.Handler, name string) int {
	t.Helper()
	w, body := request(t, r, http.MethodPost, "/api/users", gin.H{"username": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return int(body["id"].(float64))
}

func TestRouter_Users(t *testing.T) {
	r := newTestServer(t, Options{})

	w, body := request(t, r, http.MethodPost, "/api/users", gin.H{"username": "  alice  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", body["username"])
	assert.NotZero(t, body["id"])

	w, body = request(t, r, http.MethodPost, "/api/users", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", body["error"])

	w, body = request(t, r, http.MethodPost, "/api/users", gin.H{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username cannot be empty", body["error"])

	w, body = request(t, r, http.MethodPost, "/api/users", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username is required and must be a string", body["error"])

	w, body = request(t, r, http.MethodPost, "/api/users", gin.H{"username": 123})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username is required and must be a string", body["error"])

	createUser(t, r, "bob")

	first, _ := request(t, r, http.MethodGet, "/api/users", nil)
	second, _ := request(t, r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var users []map[string]any
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0]["username"])
	assert.Equal(t, "bob", users[1]["username"])
}

// TestRouter_CreateUser_Form はURLエンコードされたフォームでの登録を検証します。
func TestRouter_CreateUser_Form(t *testing.T) {
	r := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(url.Values{"username": {"carol"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"carol"`)
}

func TestRouter_Exercises(t *testing.T) {
	r := newTestServer(t, Options{})
	id := createUser(t, r, "alice")
	path := fmt.Sprintf("/api/users/%d/exercises", id)

	w, body := request(t, r, http.MethodPost, path, gin.H{"description": "Running", "duration": 30, "date": "2024-01-01"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(id), body["userId"])
	assert.NotZero(t, body["exerciseId"])
	assert.Equal(t, "Running", body["description"])
	assert.Equal(t, float64(30), body["duration"])
	assert.Equal(t, "2024-01-01", body["date"])

	w, body = request(t, r, http.MethodPost, path, gin.H{"description": "Swim", "duration": "45"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), body["date"])

	w, body = request(t, r, http.MethodPost, "/api/users/99999/exercises", gin.H{"description": "Running", "duration": 30})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["error"])

	w, body = request(t, r, http.MethodPost, "/api/users/abc/exercises", gin.H{"description": "Running", "duration": 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid user ID", body["error"])

	w, body = request(t, r, http.MethodPost, path, gin.H{"duration": "invalid", "date": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg, _ := body["error"].(string)
	assert.Contains(t, msg, "Description is required")
	assert.Contains(t, msg, "Duration")
	assert.Contains(t, msg, "YYYY-MM-DD")
}

func TestRouter_Logs(t *testing.T) {
	r := newTestServer(t, Options{})
	id := createUser(t, r, "alice")
	for _, d := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		w, _ := request(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/exercises", id),
			gin.H{"description": "Run " + d, "duration": 20, "date": d})
		require.Equal(t, http.StatusOK, w.Code)
	}
	base := fmt.Sprintf("/api/users/%d/logs", id)

	w, body := request(t, r, http.MethodGet, base+"?from=2024-01-02&to=2024-01-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(id), body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, float64(2), body["count"])
	logs := body["logs"].([]any)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-01-02", logs[0].(map[string]any)["date"])
	assert.Equal(t, "2024-01-03", logs[1].(map[string]any)["date"])

	w, body = request(t, r, http.MethodGet, base+"?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["logs"].([]any), 1)
	assert.Equal(t, float64(3), body["count"])

	w, body = request(t, r, http.MethodGet, base+"?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "positive integer")

	w, body = request(t, r, http.MethodGet, base+"?from=2024-02-01&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "from date cannot be after to date", body["error"])

	w, body = request(t, r, http.MethodGet, "/api/users/99999/logs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["error"])
}

func TestRouter_NotFoundRoute(t *testing.T) {
	r := newTestServer(t, Options{})

	w, body := request(t, r, http.MethodGet, "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["error"])
}

func TestRouter_Platform(t *testing.T) {
	r := newTestServer(t, Options{})

	w, body := request(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, body = request(t, r, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["status"])

	createUser(t, r, "alice")
	w, _ = request(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tracker_users_registered_total 1")
	assert.Contains(t, w.Body.String(), `tracker_http_requests_total{method="POST",route="/api/users",status="200"} 1`)
}

func TestRouter_StaticIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "views"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "index.html"), []byte("<h1>Exercise Tracker</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "style.css"), []byte("body{}"), 0o644))

	r := newTestServer(t, Options{StaticDir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exercise Tracker")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
}
