package repositories

import (
	"context"
	"fmt"
	"time"

	"cardhub/internal/models"

	"gorm.io/gorm"
)

type CardSyncIntentRepository interface {
	MarkApplied(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error) error
	// MarkSupersededIfStale retires the intent when a newer intent exists for
	// the same card and kind, and reports whether it did.
	MarkSupersededIfStale(ctx context.Context, intent *models.CardSyncIntent) (bool, error)
	// FindReplayable returns pending and failed intents created before the
	// cutoff with fewer than maxAttempts attempts, oldest first.
	FindReplayable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*models.CardSyncIntent, error)
}

type cardSyncIntentRepository struct {
	db *gorm.DB
}

func NewCardSyncIntentRepository(db *gorm.DB) CardSyncIntentRepository {
	return &cardSyncIntentRepository{db: db}
}

func (r *cardSyncIntentRepository) MarkApplied(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.CardSyncIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      models.IntentStateApplied,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": "",
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark intent %s applied: %w", id, err)
	}
	return nil
}

func (r *cardSyncIntentRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := r.db.WithContext(ctx).Model(&models.CardSyncIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      models.IntentStateFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark intent %s failed: %w", id, err)
	}
	return nil
}

func (r *cardSyncIntentRepository) MarkSupersededIfStale(ctx context.Context, intent *models.CardSyncIntent) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.CardSyncIntent{}).
		Where("id = ?", intent.ID).
		Where("EXISTS (SELECT 1 FROM card_sync_intents newer WHERE newer.card_id = ? AND newer.kind = ? AND newer.created_at > ?)",
			intent.CardID, intent.Kind, intent.CreatedAt).
		Update("state", models.IntentStateSuperseded)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check intent %s: %w", intent.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *cardSyncIntentRepository) FindReplayable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*models.CardSyncIntent, error) {
	var intents []*models.CardSyncIntent
	err := r.db.WithContext(ctx).
		Where("state IN ? AND attempts < ? AND created_at < ?",
			[]string{models.IntentStatePending, models.IntentStateFailed}, maxAttempts, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sync intents: %w", err)
	}
	return intents, nil
}
