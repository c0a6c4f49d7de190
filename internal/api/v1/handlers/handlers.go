package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskapi/internal/pipeline"
	"taskapi/internal/store"
	"taskapi/internal/token"
	"taskapi/pkg/logger"
)

var validate = validator.New()

// Handler carries the stores, the token service and the optional task cache.
type Handler struct {
	Users  store.UserStore
	Tasks  store.TaskStore
	Tokens *token.Service
	Cache  *redis.Client
}

func New(users store.UserStore, tasks store.TaskStore, tokens *token.Service, cache *redis.Client) *Handler {
	return &Handler{Users: users, Tasks: tasks, Tokens: tokens, Cache: cache}
}

// parseBody is the structural stage: the body must decode into req (wrong
// primitive types fail the JSON unmarshal) and every required field must be
// present (request structs use pointer fields, so absence is a nil pointer).
// Semantic validity is not checked here.
func parseBody(c *fiber.Ctx, req interface{}) pipeline.Stage {
	return func() *pipeline.Outcome {
		if err := c.BodyParser(req); err != nil {
			logger.ErrorLogger.Error("Unprocessable request body", zap.Error(err))
			return pipeline.Fail(pipeline.SchemaInvalid, "Unprocessable request body")
		}
		if err := validate.Struct(req); err != nil {
			logger.ErrorLogger.Error("Missing required fields", zap.Error(err))
			return pipeline.Fail(pipeline.SchemaInvalid, "Missing required fields")
		}
		return nil
	}
}

// requireBearer is the presence stage for the Authorization header: absence is
// a malformed request, not an authentication failure. The raw token is stored
// for the authentication stage.
func requireBearer(c *fiber.Ctx, raw *string) pipeline.Stage {
	return func() *pipeline.Outcome {
		header := c.Get("Authorization")
		if header == "" {
			logger.SecurityLogger.Warn("Missing Authorization header",
				zap.String("url", c.OriginalURL()))
			return pipeline.Fail(pipeline.BadRequest, "Missing Authorization header")
		}
		*raw = header
		return nil
	}
}

// authenticate verifies the previously captured header value. A present but
// unverifiable token (bad shape, bad signature, expired) is Unauthorized.
func (h *Handler) authenticate(raw *string, subject *int) pipeline.Stage {
	return func() *pipeline.Outcome {
		parts := strings.Split(*raw, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.SecurityLogger.Warn("Invalid Authorization header format")
			return pipeline.Fail(pipeline.Unauthorized, "Invalid token")
		}
		userID, err := h.Tokens.Verify(parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Token verification failed", zap.Error(err))
			return pipeline.Fail(pipeline.Unauthorized, "Invalid token")
		}
		*subject = userID
		return nil
	}
}

// validEmail checks the required shape: exactly one @ with a non-empty local
// part and a non-empty domain part.
func validEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
