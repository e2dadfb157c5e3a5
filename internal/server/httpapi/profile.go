package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) saveProfile(c *gin.Context) {
	var in models.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	p, created, err := h.profiles.CreateOrUpdate(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "profile created", "profile": p})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "profile": p})
}

func (h *Handler) avatarUpload(c *gin.Context) {
	url, err := h.profiles.AvatarUploadURL(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": url})
}

func (h *Handler) avatarDownload(c *gin.Context) {
	url, err := h.profiles.AvatarDownloadURL(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

func (h *Handler) userDetails(c *gin.Context) {
	d, err := h.profiles.GetUserDetails(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
