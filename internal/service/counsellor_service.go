package service

import (
	"context"
	"errors"

	"ai-counsellor-be/internal/counsellor"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICounsellorService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, emitter counsellor.StreamEmitter) error
	GetConversation(ctx context.Context, userId uuid.UUID) (*dto.ConversationResponse, error)
	ClearConversation(ctx context.Context, userId uuid.UUID) error
}

type counsellorService struct {
	orchestrator *counsellor.Orchestrator
	uowFactory   unitofwork.RepositoryFactory
}

func NewCounsellorService(orchestrator *counsellor.Orchestrator, uowFactory unitofwork.RepositoryFactory) ICounsellorService {
	return &counsellorService{
		orchestrator: orchestrator,
		uowFactory:   uowFactory,
	}
}

func (s *counsellorService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	result, err := s.orchestrator.HandleTurn(ctx, userId, req.Message, req.ConversationId)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		ConversationId: result.ConversationId,
		Reply:          result.Reply,
		Actions:        toActionDTOs(result.Actions),
		Stage:          result.Stage,
	}, nil
}

func (s *counsellorService) ChatStream(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, emitter counsellor.StreamEmitter) error {
	return s.orchestrator.StreamTurn(ctx, userId, req.Message, req.ConversationId, emitter)
}

func (s *counsellorService) GetConversation(ctx context.Context, userId uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindLatestByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errors.New("no conversation yet")
	}

	messages := make([]dto.ChatMessageDTO, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		m := dto.ChatMessageDTO{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		for _, result := range msg.ActionResults {
			m.ActionResults = append(m.ActionResults, actionDTOFromMap(result))
		}
		messages = append(messages, m)
	}

	return &dto.ConversationResponse{
		Id:        conv.Id,
		Title:     conv.Title,
		Messages:  messages,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

func (s *counsellorService) ClearConversation(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindLatestByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if conv == nil {
		return nil
	}
	return uow.ConversationRepository().Delete(ctx, conv.Id)
}

func toActionDTOs(outcomes []counsellor.Outcome) []dto.ActionResultDTO {
	out := make([]dto.ActionResultDTO, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, ToActionDTO(o))
	}
	return out
}

// ToActionDTO converts one executed action outcome to its wire shape.
func ToActionDTO(o counsellor.Outcome) dto.ActionResultDTO {
	status := "ok"
	if !o.Success {
		status = "failed"
	}
	return dto.ActionResultDTO{
		Name:    o.Name,
		Status:  status,
		Message: o.Message,
		Data:    o.Data,
	}
}

func actionDTOFromMap(m map[string]interface{}) dto.ActionResultDTO {
	d := dto.ActionResultDTO{}
	if name, ok := m["name"].(string); ok {
		d.Name = name
	}
	if msg, ok := m["message"].(string); ok {
		d.Message = msg
	}
	d.Status = "failed"
	if success, ok := m["success"].(bool); ok && success {
		d.Status = "ok"
	}
	return d
}
