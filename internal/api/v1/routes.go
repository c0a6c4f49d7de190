package v1

import (
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"taskapi/internal/api/v1/handlers"
	"taskapi/internal/store"
	"taskapi/internal/token"
)

// Deps bundles everything the handlers need. Wired once in main (or a test
// harness) and handed to RegisterRoutes.
type Deps struct {
	Users  store.UserStore
	Tasks  store.TaskStore
	Tokens *token.Service
	Cache  *redis.Client
}

func RegisterRoutes(app *fiber.App, deps Deps) {
	h := handlers.New(deps.Users, deps.Tasks, deps.Tokens, deps.Cache)

	// Users / auth
	app.Post("/users", h.Register)
	app.Post("/auth", h.Authenticate)

	// Tasks. Header checks live inside the handler pipeline (a missing header
	// and an invalid token map to different statuses), so no auth middleware
	// wraps the group.
	app.Post("/tasks", h.CreateTask)
	app.Get("/tasks", h.ListTasks)
	app.Get("/tasks/:id", h.GetTask)
	app.Put("/tasks/:id", h.UpdateTask)
	app.Delete("/tasks/:id", h.DeleteTask)
}
