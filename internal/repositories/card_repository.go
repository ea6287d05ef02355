package repositories

import (
	"context"
	"errors"

	"cardhub/internal/models"
)

var (
	ErrCardNotFound = errors.New("card not found")
)

type CardRepository interface {
	// Query operations
	FindByCardholder(ctx context.Context, cardholderID string) ([]*models.Card, error)
	FindByID(ctx context.Context, id string) (*models.Card, error)
	FindByIDAndCardholder(ctx context.Context, id, cardholderID string) (*models.Card, error)

	// Core operations
	Create(ctx context.Context, card *models.Card) error

	// Find-one-and-update on (cardID, cardholderID). The intent is inserted in
	// the same transaction and nothing is written when no card matches.
	UpdateStatus(ctx context.Context, cardID, cardholderID, status string, intent *models.CardSyncIntent) (*models.Card, error)
	UpdateLimits(ctx context.Context, cardID, cardholderID string, limits *models.CardLimits, intent *models.CardSyncIntent) (*models.Card, error)
}
