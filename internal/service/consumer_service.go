package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService rebuilds recommendation caches in the background.
// Profile edits invalidate the cache synchronously; this worker
// pre-warms the replacement so the next dashboard visit is a cache hit.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	uowFactory      unitofwork.RepositoryFactory
	recommendations IRecommendationService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	recommendations IRecommendationService,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		uowFactory:      uowFactory,
		recommendations: recommendations,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProfileInvalidatedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Pre-warming recommendations for user %s", payload.UserId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		log.Printf("[ERROR] Failed to get user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if user == nil {
		log.Printf("[WARN] User not found: %s", payload.UserId)
		msg.Ack() // Account deleted? Ack.
		return
	}
	if !user.OnboardingCompleted {
		msg.Ack() // Nothing to generate from yet.
		return
	}

	if _, err := cs.recommendations.Refresh(ctx, payload.UserId); err != nil {
		// Generation failures are not retried; the next on-demand
		// request will regenerate anyway.
		log.Printf("[ERROR] Failed to pre-warm recommendations for user %s: %v", payload.UserId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Recommendations pre-warmed for user %s", payload.UserId)
	msg.Ack()
}
