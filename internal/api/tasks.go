package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Department  string     `json:"department" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	claims := sessionClaims(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), claims.Username, tasks.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		DueDate:     req.DueDate,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

type updateTaskRequest struct {
	Status  *string `json:"status"`
	Comment *string `json:"comment"`
}

func (h *Handler) HandleUpdateTask(c *gin.Context) {
	claims := sessionClaims(c)

	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, claims.Username, tasks.Update{
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) HandleAddComment(c *gin.Context) {
	claims := sessionClaims(c)

	id, ok := taskID(c)
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.AddComment(c.Request.Context(), id, claims.Username, req.Text)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) HandleListTasks(c *gin.Context) {
	list, err := h.tasks.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) HandleListDepartmentTasks(c *gin.Context) {
	claims := sessionClaims(c)
	department := c.Param("department")

	if department != claims.Department && !h.isCrossDepartment(claims.Role) {
		abort(c, newForbiddenError("department not visible for this session"))
		return
	}

	list, err := h.tasks.ListByDepartment(c.Request.Context(), department)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}

	return id, true
}

func (h *Handler) HandleListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"departments": h.tasks.Departments()})
}
