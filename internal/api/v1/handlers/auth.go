package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/models"
	"taskapi/internal/pipeline"
	"taskapi/internal/store"
	"taskapi/pkg/logger"
)

type authRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// Authenticate exchanges credentials for a bearer token. An unknown email and
// a wrong password produce the same outcome so the response never reveals
// whether an account exists.
func (h *Handler) Authenticate(c *fiber.Ctx) error {
	var req authRequest
	var user models.User

	out := pipeline.Run(
		parseBody(c, &req),
		func() *pipeline.Outcome {
			var err error
			user, err = h.Users.UserByEmail(*req.Email)
			if errors.Is(err, store.ErrNotFound) {
				logger.SecurityLogger.Warn("Unknown email at login", zap.String("email", *req.Email))
				return pipeline.Fail(pipeline.BadRequest, "Invalid credentials")
			}
			if err != nil {
				logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
				return pipeline.Fail(pipeline.ServerError, "Error fetching user")
			}
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.Password)) != nil {
				logger.SecurityLogger.Warn("Wrong password at login", zap.Int("user_id", user.ID))
				return pipeline.Fail(pipeline.BadRequest, "Invalid credentials")
			}
			return nil
		},
	)
	if out != nil {
		return pipeline.Error(c, out)
	}

	tokenString, err := h.Tokens.Issue(user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return pipeline.Error(c, pipeline.Fail(pipeline.ServerError, "Error generating token"))
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return pipeline.Success(c, pipeline.OK, fiber.Map{"token": tokenString})
}
