package mapper

import (
	"encoding/json"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/model"

	"gorm.io/datatypes"
)

type RecommendationMapper struct{}

func NewRecommendationMapper() *RecommendationMapper {
	return &RecommendationMapper{}
}

func (m *RecommendationMapper) ToEntity(r *model.RecommendationCache) *entity.RecommendationCache {
	if r == nil {
		return nil
	}

	var payload entity.RecommendationSet
	if len(r.Payload) > 0 {
		_ = json.Unmarshal(r.Payload, &payload)
	}

	return &entity.RecommendationCache{
		Id:          r.Id,
		UserId:      r.UserId,
		ProfileHash: r.ProfileHash,
		Payload:     payload,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *RecommendationMapper) ToModel(r *entity.RecommendationCache) *model.RecommendationCache {
	if r == nil {
		return nil
	}

	payloadJSON, err := json.Marshal(r.Payload)
	if err != nil {
		payloadJSON = []byte("{}")
	}

	return &model.RecommendationCache{
		Id:          r.Id,
		UserId:      r.UserId,
		ProfileHash: r.ProfileHash,
		Payload:     datatypes.JSON(payloadJSON),
		CreatedAt:   r.CreatedAt,
	}
}
