package controller

import (
	"context"
	"errors"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/internal/pkg/serverutils"
	"ai-shopping-agent-be/internal/service"
	internalWS "ai-shopping-agent-be/internal/websocket"
	"ai-shopping-agent-be/pkg/ai/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	DeleteHistory(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewChatController(service service.IChatService, hub *internalWS.Hub, log logger.ILogger) IChatController {
	return &chatController{service: service, hub: hub, logger: log}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Get("/ws", c.ServeWs)
	h.Get("/history/:sessionId", c.History)
	h.Delete("/history/:sessionId", c.DeleteHistory)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, router.ErrEmptyMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res, err := c.service.History(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) DeleteHistory(ctx *fiber.Ctx) error {
	if err := c.service.DeleteHistory(ctx.UserContext(), ctx.Params("sessionId")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete chat history", nil))
}

// ServeWs upgrades to a chat socket. The session comes from the session_id
// query parameter; a fresh one is assigned when it is absent.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("HUB", "Starting chat socket", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(context.Background(), c.hub, conn, sessionID, c.service)
		c.logger.Info("HUB", "Chat socket closed", map[string]interface{}{"session_id": sessionID})
	})(ctx)
}
