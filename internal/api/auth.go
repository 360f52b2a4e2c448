package api

import (
	"net/http"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/services/users"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

type changePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *Handler) HandleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), req.Username, req.NewPassword); err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type createUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role"`
	Department string `json:"department" binding:"required"`
	Phone      string `json:"phone"`
}

func (h *Handler) HandleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), users.NewUser{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
