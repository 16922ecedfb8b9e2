package engine

import (
	"net/http"
	"strings"

	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/session"
	"formfitness/internal/user"

	"github.com/gin-gonic/gin"
)

// visibleTo filters the stream for a session. Staff and admins see every
// event. Members see their own events, class changes and other members'
// booking changes with the member removed.
func visibleTo(e events.Event, sess *session.Session) (events.Event, bool) {
	if user.Role(sess.Role) != user.RoleMember {
		return e, true
	}
	switch {
	case e.UserID == sess.UserID:
		return e, true
	case strings.HasPrefix(string(e.Type), "class."):
		return e, true
	case e.Type == events.BookingCreated || e.Type == events.BookingCancelled:
		e.UserID = 0
		return e, true
	}
	return events.Event{}, false
}

// Events godoc
// @Summary      Live updates
// @Description  Server-sent events for bookings, subscriptions and schedule changes.
// @Tags         events
// @Security     BearerAuth
// @Produce      text/event-stream
// @Success      200  {object}  events.Event
// @Router       /events [get]
func (h *Handler) Events(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	ch, cancel := h.bus.Subscribe(ctx)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	logger.Debug("Event stream opened", "user_id", sess.UserID)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Event stream closed", "user_id", sess.UserID)
			return
		case e, open := <-ch:
			if !open {
				return
			}
			if e, ok = visibleTo(e, sess); !ok {
				continue
			}
			c.SSEvent(string(e.Type), e)
			c.Writer.Flush()
		}
	}
}
