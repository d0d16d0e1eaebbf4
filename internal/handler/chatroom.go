package handler

import (
	"errors"
	"log"

	"chatroom-backend/internal/model"
	"chatroom-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// roomID copies the route param out of fiber's reusable request buffer
// before it crosses into code that may retain it.
func roomID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("roomId"))
}

type ChatroomHandler struct {
	roomSvc *service.ChatroomService
}

func NewChatroomHandler(roomSvc *service.ChatroomService) *ChatroomHandler {
	return &ChatroomHandler{roomSvc: roomSvc}
}

// List returns the summary projection of every room.
// GET /api/chatrooms
func (h *ChatroomHandler) List(c *fiber.Ctx) error {
	summaries, err := h.roomSvc.List(c.Context())
	if err != nil {
		log.Printf("[Rooms] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list chatrooms"})
	}
	if summaries == nil {
		summaries = []model.RoomSummary{}
	}
	return c.JSON(summaries)
}

// Create makes a new room with the caller as its only member.
// POST /api/chatrooms
func (h *ChatroomHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req model.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	room, err := h.roomSvc.Create(c.Context(), userID, req.Name)
	if err != nil {
		return roomError(c, err)
	}

	return c.Status(201).JSON(room)
}

// Get returns full room detail with member names resolved.
// GET /api/chatrooms/:roomId
func (h *ChatroomHandler) Get(c *fiber.Ctx) error {
	room, err := h.roomSvc.Get(c.Context(), roomID(c))
	if err != nil {
		return roomError(c, err)
	}
	return c.JSON(room)
}

// Join adds the caller to a room. Already a member is a 200, not an error.
// POST /api/chatrooms/join/:roomId
func (h *ChatroomHandler) Join(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	room, err := h.roomSvc.Join(c.Context(), userID, roomID(c))
	if err != nil {
		return roomError(c, err)
	}
	return c.JSON(room)
}

// Messages returns the room's full ordered log. Members only.
// GET /api/chatrooms/:roomId/messages
func (h *ChatroomHandler) Messages(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	msgs, err := h.roomSvc.Messages(c.Context(), userID, roomID(c))
	if err != nil {
		return roomError(c, err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return c.JSON(msgs)
}

// SendMessage appends to the room's log. Members only.
// POST /api/chatrooms/:roomId/messages
func (h *ChatroomHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req model.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	msg, err := h.roomSvc.SendMessage(c.Context(), userID, roomID(c), req.Message)
	if err != nil {
		return roomError(c, err)
	}

	return c.Status(201).JSON(msg)
}

func roomError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "chatroom not found"})
	case errors.Is(err, service.ErrSenderNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, service.ErrRoomExists):
		return c.Status(409).JSON(fiber.Map{"error": "chatroom already exists"})
	case errors.Is(err, service.ErrNotMember):
		return c.Status(403).JSON(fiber.Map{"error": "not a member of this chatroom"})
	case errors.Is(err, service.ErrNameTooShort),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[Rooms] request failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
