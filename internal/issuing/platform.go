// Package issuing is the client for the external card issuing platform.
package issuing

import (
	"context"
	"errors"

	"cardhub/internal/models"
)

var ErrCardholderNotFound = errors.New("cardholder not found on issuing platform")

// Platform is the issuing platform as seen by the card service.
type Platform interface {
	// SearchCardholder returns ErrCardholderNotFound when the id is unknown.
	SearchCardholder(ctx context.Context, cardholderID string) (*Cardholder, error)
	CreateCard(ctx context.Context, req CardRequest, idempotencyKey string) (*Card, error)
	UpdateCard(ctx context.Context, cardID string, patch models.CardPatch, idempotencyKey string) error
}
