package controller

import (
	"strings"

	"ai-counsellor-be/internal/pkg/serverutils"
	"ai-counsellor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUniversityController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type universityController struct {
	service service.IUniversityService
}

func NewUniversityController(service service.IUniversityService) IUniversityController {
	return &universityController{service: service}
}

func (c *universityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/universities")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/search", c.Search)
}

func (c *universityController) Search(ctx *fiber.Ctx) error {
	name := strings.TrimSpace(ctx.Query("name"))
	country := strings.TrimSpace(ctx.Query("country"))
	enrich := ctx.QueryBool("enrich", false)

	if name == "" && country == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "name or country is required"))
	}

	res, err := c.service.Search(ctx.Context(), name, country, enrich)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Universities", res))
}
