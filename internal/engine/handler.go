package engine

import (
	"net/http"
	"strconv"
	"time"

	"formfitness/internal/api"
	"formfitness/internal/auth"
	"formfitness/internal/clock"
	"formfitness/internal/events"
	"formfitness/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler exposes the desks over HTTP. Every route needs a session.
type Handler struct {
	engine *Engine
	bus    events.Bus
}

func NewHandler(engine *Engine, bus events.Bus) *Handler {
	return &Handler{engine: engine, bus: bus}
}

type CancelResponse struct {
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message"`
}

type StatusResponse struct {
	ClassID int       `json:"class_id"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status" example:"available"`
}

type RemainingDaysResponse struct {
	RemainingDays int `json:"remaining_days"`
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return nil, false
	}
	return sess, true
}

func (h *Handler) memberDesk(c *gin.Context) (*MemberDesk, bool) {
	sess, ok := h.session(c)
	if !ok {
		return nil, false
	}
	d, err := h.engine.Member(sess)
	if err != nil {
		api.RespondError(c, err)
		return nil, false
	}
	return d, true
}

func (h *Handler) staffDesk(c *gin.Context) (*StaffDesk, bool) {
	sess, ok := h.session(c)
	if !ok {
		return nil, false
	}
	d, err := h.engine.Staff(sess)
	if err != nil {
		api.RespondError(c, err)
		return nil, false
	}
	return d, true
}

func (h *Handler) adminDesk(c *gin.Context) (*AdminDesk, bool) {
	sess, ok := h.session(c)
	if !ok {
		return nil, false
	}
	d, err := h.engine.Admin(sess)
	if err != nil {
		api.RespondError(c, err)
		return nil, false
	}
	return d, true
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name, Code: "invalid_id"})
		return 0, false
	}
	return id, true
}

// dateQuery reads ?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) dateQuery(c *gin.Context) (time.Time, bool) {
	day, err := clock.ParseDate(h.engine.clock, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD", Code: "invalid_date"})
		return time.Time{}, false
	}
	return day, true
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Returns the dashboard for the caller's role: member, staff or admin.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  MemberDashboard
// @Failure      401  {object}  api.ErrorResponse
// @Router       /dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	d, err := h.engine.Open(sess)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var view any
	switch desk := d.(type) {
	case *MemberDesk:
		view, err = desk.Dashboard(c.Request.Context())
	case *StaffDesk:
		view, err = desk.Dashboard(c.Request.Context())
	case *AdminDesk:
		view, err = desk.Dashboard(c.Request.Context())
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Schedule godoc
// @Summary      Weekly schedule
// @Description  Lists every class ordered by weekday and start time.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   catalog.Class
// @Failure      401  {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) Schedule(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	d, err := h.engine.Open(sess)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var schedule any
	switch desk := d.(type) {
	case *MemberDesk:
		schedule, err = desk.Schedule(c.Request.Context())
	case *StaffDesk:
		schedule, err = desk.Schedule(c.Request.Context())
	case *AdminDesk:
		schedule, err = desk.Schedule(c.Request.Context())
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}
