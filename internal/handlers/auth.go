package handlers

import (
	"errors"
	"net/http"

	"session_auth/internal/models"
	"session_auth/internal/service"

	"github.com/gin-gonic/gin"
)

// Client-facing messages.
const (
	msgUserNotFound    = "User not found"
	msgInvalidPassword = "Invalid password"
	msgInvalidBody     = "Invalid request body"
	msgInternal        = "Internal server error"
)

const bearerPrefix = "Bearer "

// signInRequest is the sign-in payload. Empty fields are allowed and simply fail the lookup.
type signInRequest struct {
	Email    string `json:"email" example:"johndoe@gmail.com"`
	Password string `json:"password" example:"test"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Message string `json:"message"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody})
		return false
	}
	return true
}

// @Summary      Sign in
// @Description  Validates credentials. On success the access token is returned in the Authorization response header.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  models.User
// @Header       200   {string}  Authorization  "Bearer <token>"
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.SignIn(c.Request.Context(), models.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.signInError(c, input.Email, err)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_sign_in", "user_id", res.User.ID, "expires_at", res.ExpiresAt)
	}
	c.Header("Authorization", bearerPrefix+res.Token)
	c.JSON(http.StatusOK, res.User)
}

func (h *Handler) signInError(c *gin.Context, email string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.logSignInFailed(email, err)
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgUserNotFound})
	case errors.Is(err, service.ErrInvalidPassword):
		h.logSignInFailed(email, err)
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidPassword})
	default:
		if h.log != nil {
			h.log.Errorw("auth_sign_in_error", "email", email, "err", err)
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Message: msgInternal})
	}
}

func (h *Handler) logSignInFailed(email string, err error) {
	if h.log != nil {
		h.log.Infow("auth_sign_in_failed", "email", email, "err", err)
	}
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	userID := c.GetInt(ctxUserID)
	u, err := h.services.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Message: msgUserNotFound})
			return
		}
		if h.log != nil {
			h.log.Errorw("auth_current_user_failed", "user_id", userID, "err", err)
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Message: msgInternal})
		return
	}
	c.JSON(http.StatusOK, u)
}
