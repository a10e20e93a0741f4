package controller

import (
	"errors"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/pkg/serverutils"
	"ai-shopping-agent-be/internal/service"
	"ai-shopping-agent-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Brands(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
}

type productController struct {
	service service.IProductService
}

func NewProductController(service service.IProductService) IProductController {
	return &productController{service: service}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/products")
	h.Get("", c.List)
	h.Get("/brands", c.Brands)
	h.Get("/stats", c.Stats)
	h.Get("/search/:query", c.Search)
	h.Post("/compare", c.Compare)
	h.Get("/:id", c.Show)
}

func (c *productController) List(ctx *fiber.Ctx) error {
	var q dto.ListProductsQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get products", c.service.List(ctx.UserContext(), q)))
}

func (c *productController) Brands(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get brands", c.service.Brands(ctx.UserContext())))
}

func (c *productController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get catalog stats", c.service.Stats(ctx.UserContext())))
}

func (c *productController) Search(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", service.DefaultSearchLimit)
	res := c.service.Search(ctx.UserContext(), ctx.Params("query"), limit)
	return ctx.JSON(serverutils.SuccessResponse("Success search products", res))
}

func (c *productController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Phone not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *productController) Compare(ctx *fiber.Ctx) error {
	var req dto.CompareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Compare(ctx.UserContext(), req.PhoneIDs)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, catalog.ErrCompareCount):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compare products", res))
}
