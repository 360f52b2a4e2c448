package api

import (
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) HandleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Current())
}

func (h *Handler) HandleUpdateSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
