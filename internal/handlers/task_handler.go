package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uptask/internal/models"
	"uptask/internal/pdf"
	"uptask/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	users   services.UserService
	reports pdf.Generator
}

func NewTaskHandler(service services.TaskService, users services.UserService, reports pdf.Generator) *TaskHandler {
	return &TaskHandler{service: service, users: users, reports: reports}
}

// @Summary      List tasks
// @Description  Returns the caller's tasks, due date ascending, optionally filtered by status
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending or completed"
// @Success      200     {array}   models.Task
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	var filter models.TaskFilter
	if v, exists := c.GetQuery("status"); exists && v != "" {
		st := models.TaskStatus(v)
		if st != models.StatusPending && st != models.StatusCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status filter"})
			return
		}
		filter.Status = &st
	}

	tasks, err := h.service.List(c.Request.Context(), uid, filter)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.String("user_id", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve tasks"})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      models.CreateTaskRequest  true  "Task to create"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dueDate"})
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
	}

	created, err := h.service.Create(c.Request.Context(), uid, task)
	if err != nil {
		zap.L().Error("failed to create task", zap.String("user_id", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary      Update a task
// @Description  Applies the supplied fields; everything omitted keeps its value
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Task id"
// @Param        task  body      models.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}
	id := c.Param("id")

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid task fields"})
		return
	}

	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		patch.DueDateSet = true
		if *req.DueDate != "" {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid dueDate"})
				return
			}
			patch.DueDate = due
		}
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		patch.Status = &st
	}
	if req.Priority != nil {
		pr := models.TaskPriority(*req.Priority)
		patch.Priority = &pr
	}

	updated, err := h.service.Update(c.Request.Context(), uid, id, patch)
	if err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
			return
		}
		zap.L().Error("failed to update task", zap.String("user_id", uid), zap.String("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update task"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), uid, id); err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
			return
		}
		zap.L().Error("failed to delete task", zap.String("user_id", uid), zap.String("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// @Summary      Export tasks as PDF
// @Tags         Tasks
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      401  {object}  map[string]string
// @Router       /api/tasks/export [get]
func (h *TaskHandler) Export(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), uid)
	if err != nil {
		zap.L().Error("failed to load user for export", zap.String("user_id", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to export tasks"})
		return
	}

	tasks, err := h.service.List(c.Request.Context(), uid, models.TaskFilter{})
	if err != nil {
		zap.L().Error("failed to list tasks for export", zap.String("user_id", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to export tasks"})
		return
	}

	report, err := h.reports.TaskReport(user, tasks)
	if err != nil {
		zap.L().Error("failed to render task report", zap.String("user_id", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to export tasks"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tasks.pdf"`)
	c.Data(http.StatusOK, "application/pdf", report)
}
