package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartwms/wms-api/internal/application/chat"
	"github.com/smartwms/wms-api/internal/application/dto"
	"github.com/smartwms/wms-api/internal/domain/entity"
)

// ChatHandler handles the conversational command endpoint. The user id from
// the token doubles as the conversation session id, so slot-filling state
// never leaks between operators.
type ChatHandler struct {
	dispatcher *chat.Dispatcher
}

func NewChatHandler(dispatcher *chat.Dispatcher) *ChatHandler {
	return &ChatHandler{dispatcher: dispatcher}
}

// Chat godoc
// @Summary      Send a warehouse command in natural language
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "message"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var in dto.ChatRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "message is required"})
	}

	role := entity.ParseRole(GetRole(c))
	reply := h.dispatcher.Interpret(c.UserContext(), GetUserID(c), role, GetUsername(c), in.Message)
	return c.JSON(dto.ChatResponse{Response: reply})
}
