package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisClient is a mock for the Redis client
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func TestRedisSinkPublishesEvents(t *testing.T) {
	client := new(MockRedisClient)
	client.On("XAdd", mock.Anything, mock.MatchedBy(func(args *redis.XAddArgs) bool {
		return args.Stream == "stream:test"
	})).Return(nil)

	sink := NewRedisSink(client, "stream:test", slog.Default())

	events := make(chan Event, 1)
	events <- Started(2)
	close(events)

	sink.Run(context.Background(), events)

	client.AssertNumberOfCalls(t, "XAdd", 1)

	// The event JSON rides in the "data" field.
	call := client.Calls[0]
	args := call.Arguments.Get(1).(*redis.XAddArgs)
	values := args.Values.(map[string]interface{})

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, TypeStarted, decoded.Type)
	assert.Equal(t, 2, decoded.Total)
	assert.Equal(t, string(TypeStarted), values["type"])
}

func TestRedisSinkDefaultsStreamName(t *testing.T) {
	sink := NewRedisSink(new(MockRedisClient), "", slog.Default())

	assert.Equal(t, DefaultStream, sink.stream)
}

func TestRedisSinkLogsAndContinuesOnPublishError(t *testing.T) {
	client := new(MockRedisClient)
	client.On("XAdd", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	sink := NewRedisSink(client, "stream:test", slog.Default())

	events := make(chan Event, 2)
	events <- Started(1)
	events <- Completed(nil)
	close(events)

	// Must drain both events despite the failures.
	sink.Run(context.Background(), events)

	client.AssertNumberOfCalls(t, "XAdd", 2)
}

func TestRedisSinkStopsOnContextCancel(t *testing.T) {
	client := new(MockRedisClient)
	sink := NewRedisSink(client, "stream:test", slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sink.Run(ctx, make(chan Event))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sink did not stop on context cancellation")
	}
}
