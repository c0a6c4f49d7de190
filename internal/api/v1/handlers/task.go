package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskapi/internal/models"
	"taskapi/internal/pipeline"
	"taskapi/internal/store"
	"taskapi/pkg/logger"
)

type taskRequest struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Deadline    *string `json:"deadline" validate:"required"`
	Completed   *bool   `json:"completed" validate:"required"`
}

// checkFields is the semantic stage for task bodies: the deadline string must
// parse as RFC3339 and the name must not be empty. Runs after authentication.
func (req *taskRequest) checkFields(deadline *time.Time) pipeline.Stage {
	return func() *pipeline.Outcome {
		parsed, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			logger.ErrorLogger.Error("Invalid deadline", zap.Error(err))
			return pipeline.Fail(pipeline.BadRequest, "Invalid deadline")
		}
		if *req.Name == "" {
			return pipeline.Fail(pipeline.BadRequest, "Name must not be empty")
		}
		*deadline = parsed
		return nil
	}
}

// requireTaskID is the presence stage for the :id path parameter.
func requireTaskID(c *fiber.Ctx, id *int) pipeline.Stage {
	return func() *pipeline.Outcome {
		parsed, err := c.ParamsInt("id")
		if err != nil {
			logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
			return pipeline.Fail(pipeline.BadRequest, "Invalid task ID")
		}
		*id = parsed
		return nil
	}
}

// ownTask loads the addressed task and compares its owner against the
// authenticated subject. A task owned by someone else is reported exactly like
// a missing one, so ids never leak across tenants.
func (h *Handler) ownTask(taskID, subject *int, task *models.Task) pipeline.Stage {
	return func() *pipeline.Outcome {
		found, err := h.Tasks.TaskByID(*taskID)
		if errors.Is(err, store.ErrNotFound) {
			return pipeline.Fail(pipeline.NotFound, "Task not found")
		}
		if err != nil {
			logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
			return pipeline.Fail(pipeline.ServerError, "Error fetching task")
		}
		if found.OwnerID != *subject {
			logger.SecurityLogger.Warn("Cross-tenant task access",
				zap.Int("user_id", *subject), zap.Int("task_id", *taskID))
			return pipeline.Fail(pipeline.NotFound, "Task not found")
		}
		*task = found
		return nil
	}
}

// CreateTask stores a new task owned by the token's subject.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var req taskRequest
	var rawToken string
	var subject int
	var deadline time.Time
	var taskID int

	out := pipeline.Run(
		parseBody(c, &req),
		requireBearer(c, &rawToken),
		h.authenticate(&rawToken, &subject),
		req.checkFields(&deadline),
		func() *pipeline.Outcome {
			var err error
			taskID, err = h.Tasks.CreateTask(models.Task{
				OwnerID:     subject,
				Name:        *req.Name,
				Description: *req.Description,
				Deadline:    deadline,
				Completed:   *req.Completed,
			})
			if err != nil {
				logger.ErrorLogger.Error("Error creating task", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error creating task")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", taskID), zap.Int("user_id", subject))
	return pipeline.Success(c, pipeline.Created, fiber.Map{"id": taskID})
}

// ListTasks returns the tasks of the user named by the required userId query
// parameter, in insertion order. The filter id must reference an existing
// user; tasks are only revealed when it equals the authenticated subject.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	var rawToken string
	var subject int
	var filterID int
	var tasks []models.Task

	out := pipeline.Run(
		func() *pipeline.Outcome {
			raw := c.Query("userId")
			if raw == "" {
				return pipeline.Fail(pipeline.BadRequest, "Missing userId parameter")
			}
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return pipeline.Fail(pipeline.BadRequest, "Invalid userId parameter")
			}
			filterID = parsed
			return nil
		},
		requireBearer(c, &rawToken),
		h.authenticate(&rawToken, &subject),
		func() *pipeline.Outcome {
			if _, err := h.Users.UserByID(filterID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return pipeline.Fail(pipeline.BadRequest, "Unknown userId")
				}
				logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error fetching user")
			}
			return nil
		},
		func() *pipeline.Outcome {
			if filterID != subject {
				// Existing but foreign user: reveal nothing.
				tasks = []models.Task{}
				return nil
			}
			var err error
			tasks, err = h.Tasks.ListTasksByOwner(filterID)
			if err != nil {
				logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error fetching tasks")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	for _, task := range tasks {
		h.cacheTask(c, task)
	}

	logger.AuditLogger.Info("Tasks listed", zap.Int("user_id", subject), zap.Int("count", len(tasks)))
	return pipeline.Success(c, pipeline.OK, tasks)
}

// GetTask returns a single task owned by the caller.
func (h *Handler) GetTask(c *fiber.Ctx) error {
	var rawToken string
	var subject int
	var taskID int
	var task models.Task

	out := pipeline.Run(
		requireTaskID(c, &taskID),
		requireBearer(c, &rawToken),
		h.authenticate(&rawToken, &subject),
		func() *pipeline.Outcome {
			if cached, ok := h.cachedTask(c, taskID); ok {
				if cached.OwnerID != subject {
					return pipeline.Fail(pipeline.NotFound, "Task not found")
				}
				task = cached
				return nil
			}
			return h.ownTask(&taskID, &subject, &task)()
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	h.cacheTask(c, task)

	logger.AuditLogger.Info("Task fetched", zap.Int("task_id", taskID))
	return pipeline.Success(c, pipeline.OK, task)
}

// UpdateTask replaces every mutable field of a task the caller owns and
// returns the updated task.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	var req taskRequest
	var rawToken string
	var subject int
	var taskID int
	var deadline time.Time
	var task models.Task

	out := pipeline.Run(
		parseBody(c, &req),
		requireTaskID(c, &taskID),
		requireBearer(c, &rawToken),
		h.authenticate(&rawToken, &subject),
		req.checkFields(&deadline),
		h.ownTask(&taskID, &subject, &task),
		func() *pipeline.Outcome {
			task.Name = *req.Name
			task.Description = *req.Description
			task.Deadline = deadline
			task.Completed = *req.Completed
			err := h.Tasks.UpdateTask(task)
			if errors.Is(err, store.ErrNotFound) {
				// deleted between lookup and update
				return pipeline.Fail(pipeline.NotFound, "Task not found")
			}
			if err != nil {
				logger.ErrorLogger.Error("Error updating task", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error updating task")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	h.dropCachedTask(c, taskID)
	h.cacheTask(c, task)

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return pipeline.Success(c, pipeline.OK, task)
}

// DeleteTask removes a task the caller owns.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	var rawToken string
	var subject int
	var taskID int
	var task models.Task

	out := pipeline.Run(
		requireTaskID(c, &taskID),
		requireBearer(c, &rawToken),
		h.authenticate(&rawToken, &subject),
		h.ownTask(&taskID, &subject, &task),
		func() *pipeline.Outcome {
			err := h.Tasks.DeleteTask(taskID)
			if errors.Is(err, store.ErrNotFound) {
				return pipeline.Fail(pipeline.NotFound, "Task not found")
			}
			if err != nil {
				logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error deleting task")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	h.dropCachedTask(c, taskID)

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return pipeline.Success(c, pipeline.NoContent, nil)
}

// cacheTask stores a task in Redis for an hour. Cache failures are logged and
// otherwise ignored; the store stays authoritative.
func (h *Handler) cacheTask(c *fiber.Ctx, task models.Task) {
	if h.Cache == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	key := fmt.Sprintf("task:%d", task.ID)
	if err := h.Cache.SetEX(c.Context(), key, data, time.Hour).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching task", zap.Error(err))
	}
}

func (h *Handler) cachedTask(c *fiber.Ctx, id int) (models.Task, bool) {
	if h.Cache == nil {
		return models.Task{}, false
	}
	raw, err := h.Cache.Get(c.Context(), fmt.Sprintf("task:%d", id)).Result()
	if err != nil {
		return models.Task{}, false
	}
	var task models.Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return models.Task{}, false
	}
	return task, true
}

func (h *Handler) dropCachedTask(c *fiber.Ctx, id int) {
	if h.Cache == nil {
		return
	}
	h.Cache.Del(c.Context(), fmt.Sprintf("task:%d", id))
}
