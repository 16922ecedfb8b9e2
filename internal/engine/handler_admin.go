package engine

import (
	"net/http"

	"formfitness/internal/api"
	"formfitness/internal/user"

	"github.com/gin-gonic/gin"
)

// Statistics godoc
// @Summary      Club statistics
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Statistics
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/statistics [get]
func (h *Handler) Statistics(c *gin.Context) {
	d, ok := h.adminDesk(c)
	if !ok {
		return
	}

	stats, err := d.Statistics(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Users godoc
// @Summary      List users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  user.User
// @Router       /admin/users [get]
func (h *Handler) Users(c *gin.Context) {
	d, ok := h.adminDesk(c)
	if !ok {
		return
	}

	users, err := d.Users(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary      Update user
// @Description  Edits name, phone and email. The role cannot be changed.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID   path      int                 true  "User ID"
// @Param        request  body      user.UpdateRequest  true  "Fields to change"
// @Success      200      {object}  user.User
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/users/{userID} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	d, ok := h.adminDesk(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userID")
	if !ok {
		return
	}

	var req user.UpdateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, err := d.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser godoc
// @Summary      Delete user
// @Description  Removes the user with their bookings, subscriptions, wallet and sessions.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      404     {object}  api.ErrorResponse
// @Failure      422     {object}  api.ErrorResponse
// @Router       /admin/users/{userID} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	d, ok := h.adminDesk(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userID")
	if !ok {
		return
	}

	if err := d.DeleteUser(c.Request.Context(), userID); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted"})
}

// AllSubscriptions godoc
// @Summary      All subscriptions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  subscription.Subscription
// @Router       /admin/subscriptions [get]
func (h *Handler) AllSubscriptions(c *gin.Context) {
	d, ok := h.adminDesk(c)
	if !ok {
		return
	}

	subs, err := d.Subscriptions(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// AllBookings godoc
// @Summary      All bookings
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  BookingView
// @Router       /admin/bookings [get]
func (h *Handler) AllBookings(c *gin.Context) {
	d, ok := h.adminDesk(c)
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
