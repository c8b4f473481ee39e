package implementation

import (
	"context"
	"errors"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/mapper"
	"ai-counsellor-be/internal/model"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShortlistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShortlistMapper
}

func NewShortlistRepository(db *gorm.DB) contract.ShortlistRepository {
	return &ShortlistRepositoryImpl{
		db:     db,
		mapper: mapper.NewShortlistMapper(),
	}
}

func (r *ShortlistRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShortlistRepositoryImpl) Create(ctx context.Context, entry *entity.ShortlistEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShortlistRepositoryImpl) Update(ctx context.Context, entry *entity.ShortlistEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShortlistRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ShortlistEntry{}, id).Error
}

func (r *ShortlistRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.ShortlistEntry{}).Error
}

func (r *ShortlistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShortlistEntry, error) {
	var m model.ShortlistEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ShortlistRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShortlistEntry, error) {
	var models []*model.ShortlistEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ShortlistRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ShortlistEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ShortlistRepositoryImpl) UnlockAll(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ShortlistEntry{}).
		Where("user_id = ? AND is_locked = ?", userId, true).
		Update("is_locked", false).Error
}

func (r *ShortlistRepositoryImpl) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ShortlistEntry{}).
		Where("id = ?", id).
		Update("is_locked", locked).Error
}
