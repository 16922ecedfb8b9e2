package engine

import (
	"net/http"

	"formfitness/internal/api"
	"formfitness/internal/catalog"
	"formfitness/internal/subscription"

	"github.com/gin-gonic/gin"
)

// CreateClass godoc
// @Summary      Create class
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      catalog.ClassRequest  true  "Class"
// @Success      201      {object}  catalog.Class
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Router       /staff/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}

	var req catalog.ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := d.CreateClass(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

// UpdateClass godoc
// @Summary      Update class
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID  path      int                   true  "Class ID"
// @Param        request  body      catalog.ClassRequest  true  "Class"
// @Success      200      {object}  catalog.Class
// @Failure      404      {object}  api.ErrorResponse
// @Router       /staff/classes/{classID} [put]
func (h *Handler) UpdateClass(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "classID")
	if !ok {
		return
	}

	var req catalog.ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := d.UpdateClass(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// DeleteClass godoc
// @Summary      Delete class
// @Description  Deletes the class and every booking for it.
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /staff/classes/{classID} [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "classID")
	if !ok {
		return
	}

	if err := d.DeleteClass(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "class deleted"})
}

// Members godoc
// @Summary      List members
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  user.User
// @Router       /staff/members [get]
func (h *Handler) Members(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}

	members, err := d.Members(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AssignSubscription godoc
// @Summary      Assign subscription
// @Description  Issues a new subscription to a member, starting now.
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID   path      int                         true  "Member ID"
// @Param        request  body      subscription.AssignRequest  true  "Plan"
// @Success      201      {object}  subscription.Subscription
// @Failure      404      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /staff/members/{userID}/subscription [post]
func (h *Handler) AssignSubscription(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userID")
	if !ok {
		return
	}

	var req subscription.AssignRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := d.AssignSubscription(c.Request.Context(), userID, req.Type)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// MemberSubscription godoc
// @Summary      Member subscription
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true  "Member ID"
// @Success      200     {object}  MemberSubscription
// @Failure      404     {object}  api.ErrorResponse
// @Router       /staff/members/{userID}/subscription [get]
func (h *Handler) MemberSubscription(c *gin.Context) {
	d, ok := h.staffDesk(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userID")
	if !ok {
		return
	}

	ms, err := d.MemberSubscription(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// ClassRoster godoc
// @Summary      Class roster
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int     true   "Class ID"
// @Param        date     query     string  false  "Day, YYYY-MM-DD"
// @Success      200      {object}  Roster
// @Failure      404      {object}  api.ErrorResponse
// @Router       /staff/classes/{classID}/roster [get]
func (h *Handler) ClassRoster(c *gin.Context) {
	d, ok := h.staffDesk(c)
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

	roster, err := d.ClassRoster(c.Request.Context(), classID, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}
