package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise_tracker/internal/feature/tracker/domain/entity"
)

// fakeWriter はkafka.Writerの代わりに書き込まれたメッセージを記録します。
type fakeWriter struct {
	mu       sync.Mutex
	msgs     []kafka.Message
	deadline bool
	writeErr error
	closeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, w.deadline = ctx.Deadline()
	if w.writeErr != nil {
		return w.writeErr
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return w.closeErr
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestPublisher(writers map[string]*fakeWriter) *KafkaPublisher {
	p := NewKafkaPublisher(Config{Brokers: []string{"localhost:9092"}})
	p.now = func() time.Time { return fixedNow }
	p.newWriter = func(topic string) messageWriter {
		w, ok := writers[topic]
		if !ok {
			w = &fakeWriter{}
			writers[topic] = w
		}
		return w
	}
	return p
}

func TestNewKafkaPublisher_Defaults(t *testing.T) {
	t.Parallel()

	p := NewKafkaPublisher(Config{})
	assert.Equal(t, DefaultTopicUsers, p.cfg.TopicUsers)
	assert.Equal(t, DefaultTopicExercises, p.cfg.TopicExercises)
	assert.Equal(t, 2*time.Second, p.cfg.PublishTimeout)

	p = NewKafkaPublisher(Config{TopicUsers: "u", TopicExercises: "e", PublishTimeout: time.Second})
	assert.Equal(t, "u", p.cfg.TopicUsers)
	assert.Equal(t, "e", p.cfg.TopicExercises)
	assert.Equal(t, time.Second, p.cfg.PublishTimeout)
}

// TestKafkaPublisher_UserRegistered はユーザー登録イベントのトピック・キー・ペイロードを検証します。
func TestKafkaPublisher_UserRegistered(t *testing.T) {
	t.Parallel()

	writers := map[string]*fakeWriter{}
	p := newTestPublisher(writers)

	err := p.UserRegistered(context.Background(), entity.User{ID: 42, Username: "alice"})
	require.NoError(t, err)

	w := writers[DefaultTopicUsers]
	require.NotNil(t, w)
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline, "publish should be bounded by a timeout")
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "user.registered", got["type"])
	assert.Equal(t, 42.0, got["userId"])
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got["occurredAt"])
}

func TestKafkaPublisher_ExerciseLogged(t *testing.T) {
	t.Parallel()

	writers := map[string]*fakeWriter{}
	p := newTestPublisher(writers)

	e := entity.Exercise{ID: 7, UserID: 42, Description: "Running", Duration: 30, Date: "2024-01-01"}
	require.NoError(t, p.ExerciseLogged(context.Background(), e))

	w := writers[DefaultTopicExercises]
	require.NotNil(t, w)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var got ExerciseLoggedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ExerciseLoggedEvent{
		Type:        TypeExerciseLogged,
		UserID:      42,
		ExerciseID:  7,
		Description: "Running",
		Duration:    30,
		Date:        "2024-01-01",
		OccurredAt:  fixedNow,
	}, got)
}

func TestKafkaPublisher_ReusesWriterPerTopic(t *testing.T) {
	t.Parallel()

	created := 0
	p := NewKafkaPublisher(Config{})
	p.newWriter = func(topic string) messageWriter {
		created++
		return &fakeWriter{}
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, p.UserRegistered(context.Background(), entity.User{ID: 1}))
	}
	require.NoError(t, p.ExerciseLogged(context.Background(), entity.Exercise{UserID: 1}))

	assert.Equal(t, 2, created)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("broker unavailable")
	writers := map[string]*fakeWriter{DefaultTopicUsers: {writeErr: writeErr}}
	p := newTestPublisher(writers)

	err := p.UserRegistered(context.Background(), entity.User{ID: 1, Username: "bob"})
	assert.ErrorIs(t, err, writeErr)
	assert.Contains(t, err.Error(), DefaultTopicUsers)
}

// TestKafkaPublisher_Close は全てのWriterが閉じられ、最初のエラーが返されることを検証します。
func TestKafkaPublisher_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close failed")
	writers := map[string]*fakeWriter{
		DefaultTopicUsers:     {closeErr: closeErr},
		DefaultTopicExercises: {},
	}
	p := newTestPublisher(writers)
	require.NoError(t, p.UserRegistered(context.Background(), entity.User{ID: 1}))
	require.NoError(t, p.ExerciseLogged(context.Background(), entity.Exercise{UserID: 1}))

	err := p.Close()
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, writers[DefaultTopicUsers].closed)
	assert.True(t, writers[DefaultTopicExercises].closed)
	assert.Empty(t, p.writers)
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p NopPublisher
	assert.NoError(t, p.UserRegistered(context.Background(), entity.User{}))
	assert.NoError(t, p.ExerciseLogged(context.Background(), entity.Exercise{}))
	assert.NoError(t, p.Close())
}
