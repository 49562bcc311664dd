package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
	"github.com/duynhne/workshop-console/internal/logger"
)

// SubscriberIDHeader names the id given to each session event stream.
const SubscriberIDHeader = "X-Subscriber-ID"

// Session reports who is signed in and what the bearer token claims. The
// token itself is never echoed.
func (h *Handler) Session(c *gin.Context) {
	snap := h.session.Snapshot()
	body := gin.H{
		"authenticated": snap.IsAuthenticated(),
		"admin":         snap.IsAdmin(),
		"user":          snap.User,
	}
	if info, ok := logicv1.InspectToken(snap.Token, h.now()); ok {
		body["token"] = info
	}
	c.JSON(http.StatusOK, body)
}

// SessionEvents streams current-user changes as server-sent events. The
// first event carries the user at the time of connection.
func (h *Handler) SessionEvents(c *gin.Context) {
	ctx := c.Request.Context()
	id := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("subscriber_id", id).Logger()

	c.Header(SubscriberIDHeader, id)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	updates := h.session.Watch(ctx)
	log.Debug().Msg("Session subscriber connected")

	c.Stream(func(w io.Writer) bool {
		user, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("session", gin.H{"authenticated": h.session.IsAuthenticated(), "user": user})
		return true
	})
	log.Debug().Msg("Session subscriber disconnected")
}
