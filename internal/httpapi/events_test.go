package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/notify"
)

func TestStreamEvents_DeliversOwnUserEvents(t *testing.T) {
	reg := notify.NewRegistry()
	router := NewRouter(Deps{Events: reg})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/events?topic=meals", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(rr, req)
	}()
	require.Eventually(t, func() bool { return reg.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, reg.Publish(context.Background(), notify.Event{Topic: notify.TopicMeals, UserID: "u1", Date: "2024-01-01", Reason: "personalized"}))
	require.NoError(t, reg.Publish(context.Background(), notify.Event{Topic: notify.TopicMeals, UserID: "u2", Reason: "personalized"}))
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after client disconnect")
	}

	body := rr.Body.String()
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, "event:meals")
	assert.Contains(t, body, `"user_id":"u1"`)
	assert.NotContains(t, body, `"user_id":"u2"`)
	assert.Zero(t, reg.Len())
}

func TestStreamEvents_Errors(t *testing.T) {
	rr := do(t, NewRouter(Deps{}), http.MethodGet, "/v1/users/u1/events", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = do(t, NewRouter(Deps{Events: notify.NewRegistry()}), http.MethodGet, "/v1/users/u1/events?topic=snacks", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
