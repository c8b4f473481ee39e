package mapper

import (
	"encoding/json"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/model"

	"gorm.io/datatypes"
)

type ShortlistMapper struct{}

func NewShortlistMapper() *ShortlistMapper {
	return &ShortlistMapper{}
}

func (m *ShortlistMapper) ToEntity(s *model.ShortlistEntry) *entity.ShortlistEntry {
	if s == nil {
		return nil
	}

	var risks []string
	if len(s.KeyRisks) > 0 {
		_ = json.Unmarshal(s.KeyRisks, &risks)
	}

	return &entity.ShortlistEntry{
		Id:               s.Id,
		UserId:           s.UserId,
		UniversityName:   s.UniversityName,
		Country:          s.Country,
		Program:          s.Program,
		Category:         s.Category,
		FitScore:         s.FitScore,
		WhyFits:          s.WhyFits,
		KeyRisks:         risks,
		AcceptanceChance: s.AcceptanceChance,
		IsLocked:         s.IsLocked,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *ShortlistMapper) ToModel(s *entity.ShortlistEntry) *model.ShortlistEntry {
	if s == nil {
		return nil
	}

	risksJSON, err := json.Marshal(s.KeyRisks)
	if err != nil || s.KeyRisks == nil {
		risksJSON = []byte("[]")
	}

	return &model.ShortlistEntry{
		Id:               s.Id,
		UserId:           s.UserId,
		UniversityName:   s.UniversityName,
		Country:          s.Country,
		Program:          s.Program,
		Category:         s.Category,
		FitScore:         s.FitScore,
		WhyFits:          s.WhyFits,
		KeyRisks:         datatypes.JSON(risksJSON),
		AcceptanceChance: s.AcceptanceChance,
		IsLocked:         s.IsLocked,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *ShortlistMapper) ToEntities(entries []*model.ShortlistEntry) []*entity.ShortlistEntry {
	entities := make([]*entity.ShortlistEntry, len(entries))
	for i, s := range entries {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
