package repositories

import (
	"context"
	"errors"
	"fmt"

	"cardhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{
		db: db,
	}
}

func (r *cardRepository) FindByCardholder(ctx context.Context, cardholderID string) ([]*models.Card, error) {
	var cards []*models.Card
	if err := r.db.WithContext(ctx).Where("cardholder_id = ?", cardholderID).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get cardholder cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) FindByID(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) FindByIDAndCardholder(ctx context.Context, id, cardholderID string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Where("id = ? AND cardholder_id = ?", id, cardholderID).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) UpdateStatus(ctx context.Context, cardID, cardholderID, status string, intent *models.CardSyncIntent) (*models.Card, error) {
	return r.findOneAndUpdate(ctx, cardID, cardholderID, map[string]interface{}{"status": status}, intent)
}

func (r *cardRepository) UpdateLimits(ctx context.Context, cardID, cardholderID string, limits *models.CardLimits, intent *models.CardSyncIntent) (*models.Card, error) {
	return r.findOneAndUpdate(ctx, cardID, cardholderID, map[string]interface{}{"limits": limits}, intent)
}

// findOneAndUpdate applies updates with UPDATE ... RETURNING so the caller
// gets the post-update row without a second read.
func (r *cardRepository) findOneAndUpdate(ctx context.Context, cardID, cardholderID string, updates map[string]interface{}, intent *models.CardSyncIntent) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&card).
			Clauses(clause.Returning{}).
			Where("card_id = ? AND cardholder_id = ?", cardID, cardholderID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCardNotFound
		}

		if intent != nil {
			if err := tx.Create(intent).Error; err != nil {
				return fmt.Errorf("failed to record sync intent: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return &card, nil
}
