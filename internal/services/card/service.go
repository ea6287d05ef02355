package card

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "cardhub/internal/errors"
	"cardhub/internal/issuing"
	"cardhub/internal/models"
	"cardhub/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo     repositories.CardRepository
	intents  repositories.CardSyncIntentRepository
	platform issuing.Platform
	cache    Cache
}

// NewService creates a new card service
func NewService(
	repo repositories.CardRepository,
	intents repositories.CardSyncIntentRepository,
	platform issuing.Platform,
	cache Cache,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if intents == nil {
		panic("intent repo is required")
	}
	if platform == nil {
		panic("issuing platform is required")
	}

	// Cache is optional
	if cache == nil {
		cache = NoopCache{}
	}

	return &service{
		repo:     repo,
		intents:  intents,
		platform: platform,
		cache:    cache,
	}
}

func (s *service) GetAll(ctx context.Context, cardholderID string) ([]*models.Card, error) {
	if cardholderID == "" {
		return nil, apperrors.ErrCardholderRequired
	}

	cards, found, err := s.cache.GetCards(ctx, cardholderID)
	if err != nil {
		log.Printf("⚠️ Card cache read failed for cardholder %s: %v", cardholderID, err)
	} else if found {
		return cards, nil
	}

	cards, err = s.repo.FindByCardholder(ctx, cardholderID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheCards(ctx, cardholderID, cards); err != nil {
		log.Printf("⚠️ Card cache write failed for cardholder %s: %v", cardholderID, err)
	}
	return cards, nil
}

func (s *service) GetByID(ctx context.Context, cardholderID, id string) (*models.Card, error) {
	if cardholderID == "" {
		return nil, apperrors.ErrCardholderRequired
	}
	card, err := s.repo.FindByIDAndCardholder(ctx, id, cardholderID)
	return card, mapNotFound(err)
}

func (s *service) Lookup(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	return card, mapNotFound(err)
}

func (s *service) CreateCard(ctx context.Context, cardholderID string, input models.CreateCardInput) (*models.Card, error) {
	if cardholderID == "" {
		return nil, apperrors.ErrCardholderRequired
	}

	holder, err := s.cardholder(ctx, cardholderID)
	if err != nil {
		return nil, err
	}

	req := issuing.CardRequest{
		CardholderID: cardholderID,
		Type:         input.Type,
		Currency:     input.Currency,
	}
	if input.Type == models.CardTypePhysical {
		req.Shipping = shippingFor(holder)
	}

	issued, err := s.platform.CreateCard(ctx, req, uuid.NewString())
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		CardID:       issued.ID,
		CardholderID: issued.CardholderID,
		Type:         issued.Type,
		Currency:     issued.Currency,
		ExpMonth:     issued.ExpMonth,
		ExpYear:      issued.ExpYear,
		Last4:        issued.Last4,
		Brand:        issued.Brand,
		Status:       issued.Status,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		// The platform card exists but has no local record.
		log.Printf("❌ Orphaned issuing card %s for cardholder %s: %v", issued.ID, cardholderID, err)
		return nil, err
	}

	s.invalidateCards(ctx, cardholderID)
	log.Printf("Card %s created for cardholder %s", card.CardID, cardholderID)
	return card, nil
}

func (s *service) UpdateCardStatus(ctx context.Context, cardholderID string, input models.UpdateCardStatusInput) (*models.Card, error) {
	if cardholderID == "" {
		return nil, apperrors.ErrCardholderRequired
	}

	intent := models.NewCardSyncIntent(input.CardID, cardholderID, models.IntentKindStatus, models.StatusPatch(input.Status))
	card, err := s.repo.UpdateStatus(ctx, input.CardID, cardholderID, input.Status, intent)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.invalidateCards(ctx, cardholderID)

	err = s.applyIntent(ctx, intent)
	// A GetAll that read the store before the commit may have refilled
	// the cache while the platform call was in flight.
	s.invalidateCards(ctx, cardholderID)
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *service) UpdateCardLimits(ctx context.Context, cardholderID string, input models.UpdateCardLimitsInput) (*models.Card, error) {
	if cardholderID == "" {
		return nil, apperrors.ErrCardholderRequired
	}

	limits := input.Limits()
	intent := models.NewCardSyncIntent(input.CardID, cardholderID, models.IntentKindLimits, models.LimitsPatch(limits))
	card, err := s.repo.UpdateLimits(ctx, input.CardID, cardholderID, limits, intent)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.invalidateCards(ctx, cardholderID)

	err = s.applyIntent(ctx, intent)
	// A GetAll that read the store before the commit may have refilled
	// the cache while the platform call was in flight.
	s.invalidateCards(ctx, cardholderID)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// applyIntent pushes a recorded local change to the platform. On failure the
// local write stays in place and the intent is left for the reconciler.
func (s *service) applyIntent(ctx context.Context, intent *models.CardSyncIntent) error {
	if err := s.platform.UpdateCard(ctx, intent.CardID, intent.Patch, intent.ID); err != nil {
		log.Printf("⚠️ Card %s (cardholder %s) diverged from issuing platform on %s update, intent %s: %v",
			intent.CardID, intent.CardholderID, intent.Kind, intent.ID, err)
		if markErr := s.intents.MarkFailed(ctx, intent.ID, err); markErr != nil {
			log.Printf("⚠️ %v", markErr)
		}
		return err
	}

	if err := s.intents.MarkApplied(ctx, intent.ID); err != nil {
		log.Printf("⚠️ %v", err)
	}
	return nil
}

func (s *service) cardholder(ctx context.Context, cardholderID string) (*issuing.Cardholder, error) {
	holder, found, err := s.cache.GetCardholder(ctx, cardholderID)
	if err != nil {
		log.Printf("⚠️ Cardholder cache read failed for %s: %v", cardholderID, err)
	} else if found {
		return holder, nil
	}

	holder, err = s.platform.SearchCardholder(ctx, cardholderID)
	if err != nil {
		if errors.Is(err, issuing.ErrCardholderNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up cardholder: %w", err)
	}

	if err := s.cache.CacheCardholder(ctx, holder); err != nil {
		log.Printf("⚠️ Cardholder cache write failed for %s: %v", cardholderID, err)
	}
	return holder, nil
}

func (s *service) invalidateCards(ctx context.Context, cardholderID string) {
	if err := s.cache.InvalidateCards(ctx, cardholderID); err != nil {
		log.Printf("⚠️ Card cache invalidation failed for cardholder %s: %v", cardholderID, err)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrCardNotFound) {
		return apperrors.ErrCardNotFound
	}
	return err
}
