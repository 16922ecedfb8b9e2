package user

import (
	"errors"
	"net/http"

	"formfitness/internal/api"
	"formfitness/internal/apperr"
	"formfitness/internal/auth"
	"formfitness/internal/logger"
	"formfitness/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service   Service
	sessions  session.Store
	jwtSecret string
}

func NewHandler(service Service, sessions session.Store, jwtSecret string) *Handler {
	return &Handler{
		service:   service,
		sessions:  sessions,
		jwtSecret: jwtSecret,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Classify turns user errors into application errors.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound):
		return apperr.NotFound("user_not_found", err)
	case errors.Is(err, ErrLoginExists), errors.Is(err, ErrLoginTaken):
		return apperr.Conflict("login_taken", err)
	case errors.Is(err, ErrEmptyField):
		return apperr.Invalid("empty_field", err)
	default:
		return apperr.Storage(err)
	}
}

// startSession opens a session for u and issues the token pair bound to it.
func (h *Handler) startSession(c *gin.Context, u *User) (*LoginResponse, error) {
	sess, err := h.sessions.Create(c.Request.Context(), u.ID, u.Login, string(u.Role))
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Login, string(u.Role), sess.ID, h.jwtSecret, h.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *u,
	}, nil
}

// Register godoc
// @Summary      Register new member
// @Description  Creates a member account, opens a session and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, Classify(err))
		return
	}

	resp, err := h.startSession(c, u)
	if err != nil {
		api.RespondError(c, apperr.Storage(err))
		return
	}

	logger.Info("Member registered", "user_id", u.ID, "login", u.Login)
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Login
// @Description  Authenticates by login and password and opens a session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error(), Code: "invalid_credentials"})
			return
		}
		api.RespondError(c, Classify(err))
		return
	}

	resp, err := h.startSession(c, u)
	if err != nil {
		api.RespondError(c, apperr.Storage(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Logout
// @Description  Ends the current session. Tokens issued for it stop working.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	sess, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		api.RespondError(c, apperr.Storage(err))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out"})
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns profile of the authenticated user.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, Classify(err))
		return
	}

	c.JSON(http.StatusOK, u)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Returns a new access token for a live session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token payload"
// @Success      200      {object}  RefreshResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	newAccessToken, claims, err := auth.RefreshAccessToken(req.RefreshToken, h.jwtSecret, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or expired refresh token"})
		return
	}

	if _, err := h.sessions.Get(c.Request.Context(), claims.SessionID()); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "session ended, please log in again"})
			return
		}
		api.RespondError(c, apperr.Storage(err))
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		api.RespondError(c, Classify(err))
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: newAccessToken, User: *u})
}
