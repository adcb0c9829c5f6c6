package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/cache"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/realtime"
	"taskboard/internal/store"
)

type TaskHandler struct {
	Tasks      store.TaskStore
	Cache      *cache.Cache
	Dispatcher *realtime.Dispatcher
	CacheTTL   time.Duration
}

type createTaskBody struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func taskListKey(userID string, status model.TaskStatus) string {
	return "tasks:" + userID + ":" + string(status)
}

func (h *TaskHandler) invalidate(userID string) {
	if h.Cache != nil {
		h.Cache.DeletePattern("tasks:" + userID + ":*")
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status := model.TaskStatusPending
	if body.Status != "" {
		status = model.TaskStatus(body.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Title:       body.Title,
		Description: body.Description,
		Status:      status,
		DueDate:     body.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Tasks.CreateTask(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.invalidate(identity.UserID)
	h.Dispatcher.PublishTask(realtime.Event{Kind: realtime.EventTaskCreated, UserID: identity.UserID, Task: &task})
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	filter := store.TaskFilter{}
	if raw := c.Query("status"); raw != "" {
		status := model.TaskStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
		filter.Status = status
	}

	key := taskListKey(identity.UserID, filter.Status)
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(key); ok {
			c.JSON(http.StatusOK, gin.H{"tasks": cached})
			return
		}
	}

	tasks, err := h.Tasks.ListTasks(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if h.Cache != nil {
		h.Cache.Set(key, tasks, h.CacheTTL)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// load fetches the task and enforces ownership: 404 when absent, 403 when
// owned by another user.
func (h *TaskHandler) load(c *gin.Context, userID string) (model.Task, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return model.Task{}, false
	}

	task, err := h.Tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return model.Task{}, false
	}
	if task.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return model.Task{}, false
	}
	return task, true
}

func (h *TaskHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	task, ok := h.load(c, identity.UserID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	task, ok := h.load(c, identity.UserID)
	if !ok {
		return
	}

	var body updateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Title != nil {
		if *body.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid title"})
			return
		}
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Status != nil {
		status := model.TaskStatus(*body.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
		task.Status = status
	}
	if body.DueDate != nil {
		task.DueDate = body.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := h.Tasks.UpdateTask(c.Request.Context(), task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.invalidate(identity.UserID)
	h.Dispatcher.PublishTask(realtime.Event{Kind: realtime.EventTaskUpdated, UserID: identity.UserID, Task: &task})
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	task, ok := h.load(c, identity.UserID)
	if !ok {
		return
	}

	if err := h.Tasks.DeleteTask(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.invalidate(identity.UserID)
	h.Dispatcher.PublishTask(realtime.Event{Kind: realtime.EventTaskDeleted, UserID: identity.UserID, TaskID: task.ID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
