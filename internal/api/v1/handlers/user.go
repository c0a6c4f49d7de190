package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/pipeline"
	"taskapi/internal/store"
	"taskapi/pkg/logger"
)

type registerRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// Register creates a user. Stages: structural validation of the body, email
// shape and password checks, then the atomic check-and-insert.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	var userID int

	out := pipeline.Run(
		parseBody(c, &req),
		func() *pipeline.Outcome {
			if !validEmail(*req.Email) {
				logger.SecurityLogger.Warn("Invalid email format", zap.String("email", *req.Email))
				return pipeline.Fail(pipeline.BadRequest, "Invalid email format")
			}
			if *req.Password == "" {
				return pipeline.Fail(pipeline.BadRequest, "Password must not be empty")
			}
			return nil
		},
		func() *pipeline.Outcome {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error hashing password")
			}
			userID, err = h.Users.CreateUser(*req.Email, string(hashed))
			if errors.Is(err, store.ErrDuplicateEmail) {
				logger.SecurityLogger.Warn("Duplicate email", zap.String("email", *req.Email))
				return pipeline.Fail(pipeline.BadRequest, "Email already registered")
			}
			if err != nil {
				logger.ErrorLogger.Error("Error creating user", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error creating user")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	logger.AuditLogger.Info("User registered", zap.Int("user_id", userID))
	return pipeline.Success(c, pipeline.Created, fiber.Map{"id": userID})
}
