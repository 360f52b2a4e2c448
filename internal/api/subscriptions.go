package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HandleSubscribe(c *gin.Context) {
	claims := sessionClaims(c)

	raw, err := c.GetRawData()
	if err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	var target struct {
		Department string `json:"department"`
	}
	if err = json.Unmarshal(raw, &target); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), raw, target.Department, claims.Department)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}
