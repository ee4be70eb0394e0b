// Package http содержит HTTP API сервиса поверх фасада.
package http

import (
	"github.com/gofiber/fiber/v3"

	"taskkeeper/internal/taskkeeper/adapters/http/handlers"
	"taskkeeper/internal/taskkeeper/adapters/http/middleware"
	"taskkeeper/internal/taskkeeper/ports/api"
	"taskkeeper/internal/taskkeeper/ports/services"
)

const errorRouteNotFound = "route not found"

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, facade api.Facade, tokens services.TokenService) {
	h := handlers.NewHandler(facade, tokens)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiV1 := app.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)

	// Защищенные маршруты.
	requireAuth := middleware.NewAuthMiddleware(tokens, facade)

	userRoutes := apiV1.Group("/users", requireAuth)
	userRoutes.Get("/me", h.GetMe)
	userRoutes.Delete("/me", h.DeleteMe)
	userRoutes.Get("/by-username/:username", h.GetUserByUsername)

	taskRoutes := apiV1.Group("/tasks", requireAuth)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)
	taskRoutes.Post("/:id/complete", h.CompleteTask)
	taskRoutes.Put("/:id/assignees/:userId", h.AssignTask)
	taskRoutes.Delete("/:id/assignees/:userId", h.UnassignTask)

	groupRoutes := apiV1.Group("/groups", requireAuth)
	groupRoutes.Post("/", h.CreateGroup)
	groupRoutes.Get("/", h.ListGroups)
	groupRoutes.Get("/:id", h.GetGroup)
	groupRoutes.Put("/:id", h.UpdateGroup)
	groupRoutes.Delete("/:id", h.DeleteGroup)
	groupRoutes.Post("/:id/members", h.AddMember)
	groupRoutes.Put("/:id/members/:userId", h.UpdateMember)
	groupRoutes.Delete("/:id/members/:userId", h.RemoveMember)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": errorRouteNotFound,
		})
	})
}
