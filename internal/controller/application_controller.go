package controller

import (
	"ai-counsellor-be/internal/pkg/serverutils"
	"ai-counsellor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IApplicationController interface {
	RegisterRoutes(r fiber.Router)
	GetGuidance(ctx *fiber.Ctx) error
	GetChecklist(ctx *fiber.Ctx) error
	GetTimeline(ctx *fiber.Ctx) error
}

type applicationController struct {
	service service.IApplicationService
}

func NewApplicationController(service service.IApplicationService) IApplicationController {
	return &applicationController{service: service}
}

func (c *applicationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/application")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/guidance", c.GetGuidance)
	h.Get("/checklist", c.GetChecklist)
	h.Get("/timeline", c.GetTimeline)
}

func (c *applicationController) GetGuidance(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetGuidance(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Application guidance", res))
}

func (c *applicationController) GetChecklist(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetChecklist(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Document checklist", res))
}

func (c *applicationController) GetTimeline(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetTimeline(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Application timeline", res))
}
