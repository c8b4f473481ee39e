package controller

import (
	"bufio"
	"encoding/json"

	"ai-counsellor-be/internal/counsellor"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/pkg/serverutils"
	"ai-counsellor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type ICounsellorController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	ClearConversation(ctx *fiber.Ctx) error
}

type counsellorController struct {
	service service.ICounsellorService
}

func NewCounsellorController(service service.ICounsellorService) ICounsellorController {
	return &counsellorController{service: service}
}

func (c *counsellorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/counsellor")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chat", c.Chat)
	h.Post("/chat/stream", c.ChatStream)
	h.Get("/conversation", c.GetConversation)
	h.Delete("/conversation", c.ClearConversation)
}

func (c *counsellorController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Chat(ctx.UserContext(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat turn", res))
}

// ChatStream runs one chat turn over Server-Sent Events. Frames are
// JSON StreamEvent objects; the connection closes after "done" or
// "error".
func (c *counsellorController) ChatStream(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once the handler returns, so
	// everything the stream writer needs is captured up front.
	userCtx := ctx.UserContext()
	svc := c.service

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emitter := &sseEmitter{w: w}
		if err := svc.ChatStream(userCtx, userId, &req, emitter); err != nil {
			// The orchestrator already emitted an error frame for
			// turn-level failures; this is a transport-level fallback.
			_ = emitter.Error("stream interrupted")
		}
	}))
	return nil
}

func (c *counsellorController) GetConversation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetConversation(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation", res))
}

func (c *counsellorController) ClearConversation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.service.ClearConversation(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation cleared", nil))
}

// sseEmitter writes stream events as SSE data frames and flushes after
// each one so the client sees tokens as they arrive.
type sseEmitter struct {
	w *bufio.Writer
}

func (e *sseEmitter) write(event dto.StreamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := e.w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := e.w.Write(payload); err != nil {
		return err
	}
	if _, err := e.w.WriteString("\n\n"); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *sseEmitter) Start(conversationId uuid.UUID) error {
	return e.write(dto.StreamEvent{Type: "start", ConversationId: &conversationId})
}

func (e *sseEmitter) Chunk(delta string) error {
	return e.write(dto.StreamEvent{Type: "chunk", Content: delta})
}

func (e *sseEmitter) Action(outcome counsellor.Outcome) error {
	action := service.ToActionDTO(outcome)
	return e.write(dto.StreamEvent{Type: "action", Action: &action})
}

func (e *sseEmitter) Done(result *counsellor.TurnResult) error {
	actions := make([]dto.ActionResultDTO, 0, len(result.Actions))
	for _, outcome := range result.Actions {
		actions = append(actions, service.ToActionDTO(outcome))
	}
	return e.write(dto.StreamEvent{
		Type:           "done",
		ConversationId: &result.ConversationId,
		Reply:          result.Reply,
		Actions:        actions,
		Stage:          result.Stage,
	})
}

func (e *sseEmitter) Error(message string) error {
	return e.write(dto.StreamEvent{Type: "error", Error: message})
}
