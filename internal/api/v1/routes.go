package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"tasklist-api/internal/api/v1/handlers"
	"tasklist-api/internal/config"
	"tasklist-api/internal/middleware"
)

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(deps *config.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tasklist-api",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.JSONErrorHandler(deps.Log),
	})

	app.Use(middleware.ErrorHandler(deps.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	RegisterRoutes(app, deps)
	return app
}

func RegisterRoutes(app *fiber.App, deps *config.Dependencies) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Task list API is running")
	})

	authH := handlers.NewAuthHandler(deps.Users, deps.Validate, deps.Log)
	taskH := handlers.NewTaskHandler(deps.Tasks, deps.Validate, deps.Log)
	userH := handlers.NewUserHandler(deps.Users, deps.Log)
	gate := middleware.UseToken(deps.Tokens, deps.Log)

	// Websocket upgrades are long-lived, so they sit outside the timeout.
	app.Get("/api/ws", gate, handlers.RequireUpgrade, handlers.TaskFeed(deps.Hub, deps.Log))

	api := app.Group("/api", middleware.Timeout(deps.Config.RequestTimeout))

	// Auth
	api.Post("/register", authH.Register)
	api.Post("/login", authH.Login)

	// User
	api.Get("/me", gate, userH.Me)

	// Task
	tasks := api.Group("/tasks", gate)
	tasks.Get("/", taskH.List)
	tasks.Post("/", taskH.Create)
	tasks.Get("/:id", taskH.Get)
	tasks.Put("/:id", taskH.Update)
	tasks.Delete("/:id", taskH.Delete)
}
