package card

import (
	"context"

	"cardhub/internal/issuing"
	"cardhub/internal/models"
)

// Service defines the card management operations exposed to callers.
type Service interface {
	// Owner-scoped queries
	GetAll(ctx context.Context, cardholderID string) ([]*models.Card, error)
	GetByID(ctx context.Context, cardholderID, id string) (*models.Card, error)

	// Lookup finds a card by primary key without an ownership check.
	// Only admin routes call it.
	Lookup(ctx context.Context, id string) (*models.Card, error)

	// Mutations
	CreateCard(ctx context.Context, cardholderID string, input models.CreateCardInput) (*models.Card, error)
	UpdateCardStatus(ctx context.Context, cardholderID string, input models.UpdateCardStatusInput) (*models.Card, error)
	UpdateCardLimits(ctx context.Context, cardholderID string, input models.UpdateCardLimitsInput) (*models.Card, error)
}

// Cache is the read-through cache used for card lists and cardholder
// profiles. A miss is reported as found == false with a nil error.
type Cache interface {
	GetCards(ctx context.Context, cardholderID string) ([]*models.Card, bool, error)
	CacheCards(ctx context.Context, cardholderID string, cards []*models.Card) error
	InvalidateCards(ctx context.Context, cardholderID string) error

	GetCardholder(ctx context.Context, cardholderID string) (*issuing.Cardholder, bool, error)
	CacheCardholder(ctx context.Context, holder *issuing.Cardholder) error
}

// NoopCache is a Cache that never stores anything.
type NoopCache struct{}

func (NoopCache) GetCards(context.Context, string) ([]*models.Card, bool, error) {
	return nil, false, nil
}
func (NoopCache) CacheCards(context.Context, string, []*models.Card) error { return nil }
func (NoopCache) InvalidateCards(context.Context, string) error          { return nil }
func (NoopCache) GetCardholder(context.Context, string) (*issuing.Cardholder, bool, error) {
	return nil, false, nil
}
func (NoopCache) CacheCardholder(context.Context, *issuing.Cardholder) error { return nil }
