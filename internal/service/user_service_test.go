package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/unitofwork"
)

// The cascade stubs record the delete order so the test can assert no
// owned rows could survive the user row.

type cascadeRecorder struct {
	ops []string
}

type cascadeTaskRepo struct {
	contract.TaskRepository
	rec *cascadeRecorder
}

func (r *cascadeTaskRepo) DeleteAllByUserId(context.Context, uuid.UUID) error {
	r.rec.ops = append(r.rec.ops, "tasks")
	return nil
}

type cascadeShortlistRepo struct {
	contract.ShortlistRepository
	rec *cascadeRecorder
}

func (r *cascadeShortlistRepo) DeleteAllByUserId(context.Context, uuid.UUID) error {
	r.rec.ops = append(r.rec.ops, "shortlist")
	return nil
}

type cascadeConversationRepo struct {
	contract.ConversationRepository
	rec *cascadeRecorder
}

func (r *cascadeConversationRepo) DeleteAllByUserId(context.Context, uuid.UUID) error {
	r.rec.ops = append(r.rec.ops, "conversations")
	return nil
}

type cascadeRecommendationRepo struct {
	contract.RecommendationRepository
	rec *cascadeRecorder
}

func (r *cascadeRecommendationRepo) DeleteAllByUserId(context.Context, uuid.UUID) error {
	r.rec.ops = append(r.rec.ops, "recommendations")
	return nil
}

type cascadeUserRepo struct {
	contract.UserRepository
	rec *cascadeRecorder
}

func (r *cascadeUserRepo) DeleteUnscoped(context.Context, uuid.UUID) error {
	r.rec.ops = append(r.rec.ops, "user")
	return nil
}

type cascadeUow struct {
	unitofwork.UnitOfWork
	rec       *cascadeRecorder
	committed bool
}

func (u *cascadeUow) Begin(context.Context) error { return nil }
func (u *cascadeUow) Commit() error               { u.committed = true; return nil }
func (u *cascadeUow) Rollback() error             { return nil }

func (u *cascadeUow) UserRepository() contract.UserRepository {
	return &cascadeUserRepo{rec: u.rec}
}
func (u *cascadeUow) ShortlistRepository() contract.ShortlistRepository {
	return &cascadeShortlistRepo{rec: u.rec}
}
func (u *cascadeUow) TaskRepository() contract.TaskRepository {
	return &cascadeTaskRepo{rec: u.rec}
}
func (u *cascadeUow) ConversationRepository() contract.ConversationRepository {
	return &cascadeConversationRepo{rec: u.rec}
}
func (u *cascadeUow) RecommendationRepository() contract.RecommendationRepository {
	return &cascadeRecommendationRepo{rec: u.rec}
}

func TestDeleteAccountCascadeOrder(t *testing.T) {
	rec := &cascadeRecorder{}
	uow := &cascadeUow{rec: rec}
	svc := NewUserService(&stubFactory{uow: uow}, nil, nil, nil)

	err := svc.DeleteAccount(context.Background(), uuid.New())

	assert.NoError(t, err)
	// Every owned row goes before the user row, in one transaction.
	assert.Equal(t, []string{"tasks", "shortlist", "conversations", "recommendations", "user"}, rec.ops)
	assert.True(t, uow.committed)
}
