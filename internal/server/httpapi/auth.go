package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) setSessionCookie(c *gin.Context, t *services.SessionToken) {
	maxAge := int(time.Until(t.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, t.Token, maxAge, "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) signup(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "Registered", "username", user.UserName, "user_id", user.ID)
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user": user})
}

func (h *Handler) signin(c *gin.Context) {
	var in signinRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, token, err := h.auth.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "signed in", "user": user})
}

// logout always succeeds for the caller; a revocation failure is only logged.
func (h *Handler) logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := h.auth.InvalidateSession(c.Request.Context(), token); err != nil {
			h.logger.Warn(c.Request.Context(), "session revocation failed", "error", err.Error(), "trace_id", TraceID(c))
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) check(c *gin.Context) {
	user, err := h.auth.Check(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
