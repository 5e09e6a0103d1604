package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/plateplan/internal/app"
)

func TestLogUseCaseObserver_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "compute-streak", Success: true, Duration: 3 * time.Millisecond})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:   "allocate-week",
		Err:    errors.New("boom"),
		Fields: map[string]any{"user_id": "u1"},
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "compute-streak", entries[0].ContextMap()["use_case"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "u1", entries[1].ContextMap()["user_id"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestLogUseCaseObserver_UserFacingFailuresWarn(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "complete-slot", Err: app.NotFound("slot %s", "s1")})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "personalize-for-date",
		Err:  &app.RateLimitError{Message: "too many regenerations", WaitSeconds: 60},
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, string(app.PlanErrNotFound), entries[0].ContextMap()["error_code"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "RATE_LIMITED", entries[1].ContextMap()["error_code"])
}

func TestObserve_ReportsNamedError(t *testing.T) {
	obs := &recordingObserver{}
	run := func() (err error) {
		defer observe(context.Background(), obs, "test-case", time.Now(), nil, &err)
		return errors.New("failed")
	}

	require.Error(t, run())
	ev := obs.last()
	assert.Equal(t, "test-case", ev.Name)
	assert.False(t, ev.Success)
	assert.EqualError(t, ev.Err, "failed")
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
