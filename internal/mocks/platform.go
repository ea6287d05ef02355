package mocks

import (
	"context"

	"cardhub/internal/issuing"
	"cardhub/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) SearchCardholder(ctx context.Context, cardholderID string) (*issuing.Cardholder, error) {
	args := m.Called(ctx, cardholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuing.Cardholder), args.Error(1)
}

func (m *MockPlatform) CreateCard(ctx context.Context, req issuing.CardRequest, idempotencyKey string) (*issuing.Card, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuing.Card), args.Error(1)
}

func (m *MockPlatform) UpdateCard(ctx context.Context, cardID string, patch models.CardPatch, idempotencyKey string) error {
	args := m.Called(ctx, cardID, patch, idempotencyKey)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCards(ctx context.Context, cardholderID string) ([]*models.Card, bool, error) {
	args := m.Called(ctx, cardholderID)
	cards, _ := args.Get(0).([]*models.Card)
	return cards, args.Bool(1), args.Error(2)
}

func (m *MockCache) CacheCards(ctx context.Context, cardholderID string, cards []*models.Card) error {
	args := m.Called(ctx, cardholderID, cards)
	return args.Error(0)
}

func (m *MockCache) InvalidateCards(ctx context.Context, cardholderID string) error {
	args := m.Called(ctx, cardholderID)
	return args.Error(0)
}

func (m *MockCache) GetCardholder(ctx context.Context, cardholderID string) (*issuing.Cardholder, bool, error) {
	args := m.Called(ctx, cardholderID)
	holder, _ := args.Get(0).(*issuing.Cardholder)
	return holder, args.Bool(1), args.Error(2)
}

func (m *MockCache) CacheCardholder(ctx context.Context, holder *issuing.Cardholder) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}
