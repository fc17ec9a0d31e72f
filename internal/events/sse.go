package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ScopeFunc resolves the subscriber scope for a request; ok is false for
// anonymous visitors.
type ScopeFunc func(c *gin.Context) (scope string, ok bool)

// Stream serves text/event-stream for the caller's scope. The browser badge
// script refetches the matching badge fragment on each event.
func (b *Bus) Stream(scopeOf ScopeFunc, heartbeat time.Duration) gin.HandlerFunc {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return func(c *gin.Context) {
		scope, ok := scopeOf(c)
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}

		w := c.Writer
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, "retry: 5000\n\n")
		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		w.Flush()

		ch, unsubscribe := b.Subscribe(scope)
		defer unsubscribe()
		b.logger.Debug("event stream opened", slog.String("scope", scope), slog.Int("subscribers", b.Subscribers(scope)))

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				w.Flush()
			case ev, ok := <-ch:
				if !ok {
					return
				}
				data, _ := json.Marshal(ev)
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
				w.Flush()
			}
		}
	}
}
