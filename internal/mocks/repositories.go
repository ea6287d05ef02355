package mocks

import (
	"context"
	"time"

	"cardhub/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByCardholder(ctx context.Context, cardholderID string) ([]*models.Card, error) {
	args := m.Called(ctx, cardholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockCardRepository) FindByID(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) FindByIDAndCardholder(ctx context.Context, id, cardholderID string) (*models.Card, error) {
	args := m.Called(ctx, id, cardholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateStatus(ctx context.Context, cardID, cardholderID, status string, intent *models.CardSyncIntent) (*models.Card, error) {
	args := m.Called(ctx, cardID, cardholderID, status, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateLimits(ctx context.Context, cardID, cardholderID string, limits *models.CardLimits, intent *models.CardSyncIntent) (*models.Card, error) {
	args := m.Called(ctx, cardID, cardholderID, limits, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

type MockCardSyncIntentRepository struct {
	mock.Mock
}

func (m *MockCardSyncIntentRepository) MarkApplied(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardSyncIntentRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

func (m *MockCardSyncIntentRepository) MarkSupersededIfStale(ctx context.Context, intent *models.CardSyncIntent) (bool, error) {
	args := m.Called(ctx, intent)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardSyncIntentRepository) FindReplayable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*models.CardSyncIntent, error) {
	args := m.Called(ctx, before, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CardSyncIntent), args.Error(1)
}
