package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/plateplan/internal/notify"
)

const eventBuffer = 16

// GET /v1/users/:user/events?topic=meals|workouts|both
// Streams the user's plan-change events as server-sent events until the
// client disconnects. Events that arrive while the buffer is full are dropped.
func (h *Handler) StreamEvents(c *gin.Context) {
	if h.events == nil {
		respondError(c, http.StatusServiceUnavailable, codeEventsDisabled, errors.New("event stream is not configured"))
		return
	}
	topic := notify.Topic(c.DefaultQuery("topic", string(notify.TopicBoth)))
	switch topic {
	case notify.TopicMeals, notify.TopicWorkouts, notify.TopicBoth:
	default:
		h.writeError(c, invalid("unknown topic %q", topic))
		return
	}

	userID := c.Param("user")
	ch := make(chan notify.Event, eventBuffer)
	sub := h.events.Subscribe(topic, func(ev notify.Event) {
		if ev.UserID != userID {
			return
		}
		select {
		case ch <- ev:
		default:
		}
	})
	defer sub.Unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case ev := <-ch:
			c.SSEvent(string(ev.Topic), ev)
			c.Writer.Flush()
		case <-ctx.Done():
			// Flush whatever was published before the client went away.
			for {
				select {
				case ev := <-ch:
					c.SSEvent(string(ev.Topic), ev)
				default:
					c.Writer.Flush()
					return
				}
			}
		}
	}
}
