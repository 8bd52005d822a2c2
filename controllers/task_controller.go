package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tringuyenminh209/Kizamu/models"
	"github.com/tringuyenminh209/Kizamu/services"
)

// TaskController handles the owner-scoped task CRUD endpoints.
type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// Index handles GET /api/tasks with an optional status filter.
func (tc *TaskController) Index(c *gin.Context) {
	tasks, err := tc.tasks.List(c.Request.Context(), c.GetUint("uid"), c.Query("status"))
	if err != nil {
		tc.serverError(c, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
		"message": "tasks retrieved",
	})
}

// Store handles POST /api/tasks.
func (tc *TaskController) Store(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	task, err := tc.tasks.Create(c.Request.Context(), c.GetUint("uid"), &req)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			tc.validationError(c, ve)
			return
		}
		tc.serverError(c, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    task,
		"message": "task created",
	})
}

// Show handles GET /api/tasks/:id.
func (tc *TaskController) Show(c *gin.Context) {
	id, ok := tc.taskID(c)
	if !ok {
		return
	}

	task, err := tc.tasks.Get(c.Request.Context(), c.GetUint("uid"), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			tc.notFound(c)
			return
		}
		tc.serverError(c, "failed to fetch task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
		"message": "task retrieved",
	})
}

// Update handles PUT/PATCH /api/tasks/:id.
func (tc *TaskController) Update(c *gin.Context) {
	id, ok := tc.taskID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	task, err := tc.tasks.Update(c.Request.Context(), c.GetUint("uid"), id, &req)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			tc.validationError(c, ve)
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			tc.notFound(c)
			return
		}
		tc.serverError(c, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
		"message": "task updated",
	})
}

// Destroy handles DELETE /api/tasks/:id.
func (tc *TaskController) Destroy(c *gin.Context) {
	id, ok := tc.taskID(c)
	if !ok {
		return
	}

	if err := tc.tasks.Delete(c.Request.Context(), c.GetUint("uid"), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			tc.notFound(c)
			return
		}
		tc.serverError(c, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "task deleted",
	})
}

// taskID parses the :id param. A malformed id is treated the same as a missing
// task, so nothing about valid id ranges leaks.
func (tc *TaskController) taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		tc.notFound(c)
		return 0, false
	}
	return uint(id), true
}

func (tc *TaskController) validationError(c *gin.Context, ve *services.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "validation error",
		"errors":  ve.Fields,
	})
}

func (tc *TaskController) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "task not found",
	})
}

func (tc *TaskController) serverError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
	})
}
