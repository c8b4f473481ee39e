package controller

import (
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/pkg/serverutils"
	"ai-counsellor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IShortlistController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Lock(ctx *fiber.Ctx) error
	Unlock(ctx *fiber.Ctx) error
}

type shortlistController struct {
	service service.IShortlistService
}

func NewShortlistController(service service.IShortlistService) IShortlistController {
	return &shortlistController{service: service}
}

func (c *shortlistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/shortlist")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Add)
	h.Get("/", c.List)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/lock", c.Lock)
	h.Post("/unlock", c.Unlock)
}

func (c *shortlistController) Add(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AddShortlistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Add(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Shortlist entry", res))
}

func (c *shortlistController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Shortlist", res))
}

func (c *shortlistController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	shortlistId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid shortlist id"))
	}

	if err := c.service.Delete(ctx.Context(), userId, shortlistId); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Shortlist entry removed", nil))
}

func (c *shortlistController) Lock(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	shortlistId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid shortlist id"))
	}

	entry, err := c.service.Lock(ctx.Context(), userId, shortlistId)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	res := service.ToShortlistDTO(entry)
	return ctx.JSON(serverutils.SuccessResponse("University locked", res))
}

func (c *shortlistController) Unlock(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.service.Unlock(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("University unlocked", nil))
}
