package engine

import (
	"net/http"

	"formfitness/internal/api"
	"formfitness/internal/subscription"

	"github.com/gin-gonic/gin"
)

// ClassStatus godoc
// @Summary      Booking status for a class
// @Description  available, booked (by you) or full. Defaults to today.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int     true   "Class ID"
// @Param        date     query     string  false  "Day, YYYY-MM-DD"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{classID}/status [get]
func (h *Handler) ClassStatus(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}
	classID, ok := idParam(c, "classID")
	if !ok {
		return
	}
	day, ok := h.dateQuery(c)
	if !ok {
		return
	}

	status, err := d.Status(c.Request.Context(), classID, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{ClassID: classID, Date: day, Status: string(status)})
}

// Book godoc
// @Summary      Book a class
// @Description  Books a place for today. Other days, full classes and repeat bookings are rejected.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int     true   "Class ID"
// @Param        date     query     string  false  "Day, YYYY-MM-DD (must be today)"
// @Success      201      {object}  booking.Booking
// @Failure      404      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /classes/{classID}/book [post]
func (h *Handler) Book(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}
	classID, ok := idParam(c, "classID")
	if !ok {
		return
	}
	day, ok := h.dateQuery(c)
	if !ok {
		return
	}

	b, err := d.Book(c.Request.Context(), classID, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Cancelling a booking that does not exist is not an error.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int     true   "Class ID"
// @Param        date     query     string  false  "Day, YYYY-MM-DD"
// @Success      200      {object}  CancelResponse
// @Router       /classes/{classID}/book [delete]
func (h *Handler) Cancel(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}
	classID, ok := idParam(c, "classID")
	if !ok {
		return
	}
	day, ok := h.dateQuery(c)
	if !ok {
		return
	}

	removed, err := d.Cancel(c.Request.Context(), classID, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	msg := "booking cancelled"
	if !removed {
		msg = "nothing to cancel"
	}
	c.JSON(http.StatusOK, CancelResponse{Cancelled: removed, Message: msg})
}

// MyBookings godoc
// @Summary      My bookings
// @Description  Bookings from today onward.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  BookingView
// @Router       /bookings [get]
func (h *Handler) MyBookings(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}

	views, err := d.Bookings(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// MySubscription godoc
// @Summary      My subscription
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  subscription.Status
// @Router       /subscription [get]
func (h *Handler) MySubscription(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}

	status, err := d.Subscription(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// RemainingDays godoc
// @Summary      Days left on my subscription
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  RemainingDaysResponse
// @Router       /subscription/remaining-days [get]
func (h *Handler) RemainingDays(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}

	n, err := d.RemainingDays(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RemainingDaysResponse{RemainingDays: n})
}

// Plans godoc
// @Summary      Subscription plans
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  subscription.Plan
// @Router       /subscription/plans [get]
func (h *Handler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.subs.Plans())
}

// Freeze godoc
// @Summary      Freeze my subscription
// @Description  Freezes the active subscription for 7 days. Allowed once.
// @Tags         subscription
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  subscription.Subscription
// @Failure      409  {object}  api.ErrorResponse
// @Failure      422  {object}  api.ErrorResponse
// @Router       /subscription/freeze [post]
func (h *Handler) Freeze(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}

	sub, err := d.Freeze(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Purchase godoc
// @Summary      Buy a subscription
// @Description  Pays for a plan from the wallet.
// @Tags         subscription
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      subscription.AssignRequest  true  "Plan"
// @Success      201      {object}  subscription.Subscription
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /subscription/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	d, ok := h.memberDesk(c)
	if !ok {
		return
	}

	var req subscription.AssignRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := d.Purchase(c.Request.Context(), req.Type)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
