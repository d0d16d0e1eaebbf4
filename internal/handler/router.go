package handler

import (
	"time"

	"chatroom-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Routes holds the handlers mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Chatrooms *ChatroomHandler
	Tokens    middleware.TokenValidator
}

// Register mounts the API surface on the app. Extracted from main so the
// end-to-end tests exercise the same route table.
func Register(app *fiber.App, r Routes) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(5, time.Minute), r.Auth.Register)
	auth.Post("/login", middleware.RateLimit(10, time.Minute), r.Auth.Login)

	rooms := api.Group("/chatrooms", middleware.Auth(r.Tokens))
	rooms.Get("/", r.Chatrooms.List)
	rooms.Post("/", r.Chatrooms.Create)
	rooms.Post("/join/:roomId", r.Chatrooms.Join)
	rooms.Get("/:roomId", r.Chatrooms.Get)
	rooms.Get("/:roomId/messages", r.Chatrooms.Messages)
	rooms.Post("/:roomId/messages", r.Chatrooms.SendMessage)
}
