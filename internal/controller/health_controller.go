package controller

import (
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/session"

	"github.com/gofiber/fiber/v2"
)

const Version = "1.0.0"

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Info(ctx *fiber.Ctx) error
}

type healthController struct {
	catalog  *catalog.Store
	sessions *session.Store
	provider string
}

func NewHealthController(store *catalog.Store, sessions *session.Store, provider string) IHealthController {
	return &healthController{catalog: store, sessions: sessions, provider: provider}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Info)
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":          "healthy",
		"phones_loaded":   c.catalog.Len(),
		"active_sessions": c.sessions.Len(),
		"llm_provider":    c.provider,
	})
}

func (c *healthController) Info(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"name":    "AI Shopping Agent API",
		"version": Version,
		"docs":    "/api",
		"health":  "/health",
	})
}
