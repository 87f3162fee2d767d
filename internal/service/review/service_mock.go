package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
)

// MockReviewService is a mock implementation of the ReviewService interface
// for testing consumers such as the HTTP handlers.
type MockReviewService struct {
	CreateItemFunc    func(ctx context.Context, ownerID uuid.UUID, mainText, subText, offset string) (*domain.Item, error)
	ListDueAtFunc     func(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Item, error)
	ListAllFunc       func(ctx context.Context, ownerID uuid.UUID) ([]*ItemView, error)
	RecordOutcomeFunc func(ctx context.Context, ownerID, itemID uuid.UUID, wasMemorized bool, offset string) error
	DeleteItemFunc    func(ctx context.Context, ownerID, itemID uuid.UUID) error
}

var _ ReviewService = (*MockReviewService)(nil)

// CreateItem delegates to CreateItemFunc when set.
func (m *MockReviewService) CreateItem(
	ctx context.Context,
	ownerID uuid.UUID,
	mainText, subText, offset string,
) (*domain.Item, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, ownerID, mainText, subText, offset)
	}
	return nil, nil
}

// ListDueAt delegates to ListDueAtFunc when set.
func (m *MockReviewService) ListDueAt(
	ctx context.Context,
	ownerID uuid.UUID,
	at time.Time,
) ([]*domain.Item, error) {
	if m.ListDueAtFunc != nil {
		return m.ListDueAtFunc(ctx, ownerID, at)
	}
	return nil, nil
}

// ListAll delegates to ListAllFunc when set.
func (m *MockReviewService) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*ItemView, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, ownerID)
	}
	return nil, nil
}

// RecordOutcome delegates to RecordOutcomeFunc when set.
func (m *MockReviewService) RecordOutcome(
	ctx context.Context,
	ownerID, itemID uuid.UUID,
	wasMemorized bool,
	offset string,
) error {
	if m.RecordOutcomeFunc != nil {
		return m.RecordOutcomeFunc(ctx, ownerID, itemID, wasMemorized, offset)
	}
	return nil
}

// DeleteItem delegates to DeleteItemFunc when set.
func (m *MockReviewService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, ownerID, itemID)
	}
	return nil
}
