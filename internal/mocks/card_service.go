package mocks

import (
	"context"

	"cardhub/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCardService implements card.Service.
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) GetAll(ctx context.Context, cardholderID string) ([]*models.Card, error) {
	args := m.Called(ctx, cardholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockCardService) GetByID(ctx context.Context, cardholderID, id string) (*models.Card, error) {
	args := m.Called(ctx, cardholderID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Lookup(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) CreateCard(ctx context.Context, cardholderID string, input models.CreateCardInput) (*models.Card, error) {
	args := m.Called(ctx, cardholderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) UpdateCardStatus(ctx context.Context, cardholderID string, input models.UpdateCardStatusInput) (*models.Card, error) {
	args := m.Called(ctx, cardholderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) UpdateCardLimits(ctx context.Context, cardholderID string, input models.UpdateCardLimitsInput) (*models.Card, error) {
	args := m.Called(ctx, cardholderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}
