package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Intent kinds
const (
	IntentKindStatus = "status"
	IntentKindLimits = "limits"
)

// Intent states
const (
	IntentStatePending = "pending"
	IntentStateApplied = "applied"
	IntentStateFailed  = "failed"
	// superseded intents were never applied because a newer intent for the
	// same card and kind exists
	IntentStateSuperseded = "superseded"
)

// Spending limit intervals understood by the issuing platform
const (
	IntervalMonthly          = "monthly"
	IntervalPerAuthorization = "per_authorization"
)

// CardSyncIntent records a platform mutation that must follow a local write.
// It is written in the same transaction as the local change and marked
// applied once the platform accepts the patch.
type CardSyncIntent struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	CardID       string    `gorm:"index;not null" json:"cardId"`
	CardholderID string    `gorm:"not null" json:"cardholderId"`
	Kind         string    `gorm:"not null" json:"kind"`
	Patch        CardPatch `gorm:"type:jsonb;not null" json:"patch"`
	State        string    `gorm:"index;not null;default:'pending'" json:"state"`
	Attempts     int       `gorm:"default:0" json:"attempts"`
	LastError    string    `json:"lastError,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the primary key.
func (i *CardSyncIntent) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NewCardSyncIntent returns a pending intent with its id already set, so the
// id can double as the platform idempotency key.
func NewCardSyncIntent(cardID, cardholderID, kind string, patch CardPatch) *CardSyncIntent {
	return &CardSyncIntent{
		ID:           uuid.NewString(),
		CardID:       cardID,
		CardholderID: cardholderID,
		Kind:         kind,
		Patch:        patch,
		State:        IntentStatePending,
	}
}

// ReplayKey is the idempotency key for a reconciler replay. The platform
// stores the outcome of every keyed request, errors included, so each replay
// needs a key of its own. Patches set absolute values, so repeating one is
// harmless.
func (i *CardSyncIntent) ReplayKey() string {
	return fmt.Sprintf("%s-%d", i.ID, i.Attempts)
}

// CardPatch is a partial card update sent to the issuing platform. Exactly
// one of Status or SpendingLimits is set.
type CardPatch struct {
	Status         string          `json:"status,omitempty"`
	SpendingLimits []SpendingLimit `json:"spending_limits,omitempty"`
}

// SpendingLimit caps spend over an interval.
type SpendingLimit struct {
	Amount   *int64 `json:"amount,omitempty"`
	Interval string `json:"interval"`
}

// Value implements the driver.Valuer interface
func (p CardPatch) Value() (driver.Value, error) {
	return jsonValue(p)
}

// Scan implements the sql.Scanner interface
func (p *CardPatch) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// StatusPatch builds the patch for a status change.
func StatusPatch(status string) CardPatch {
	return CardPatch{Status: status}
}

// LimitsPatch builds the patch for a limits change: one monthly entry and one
// per-authorization entry.
func LimitsPatch(limits *CardLimits) CardPatch {
	var monthly, single *int64
	if limits != nil {
		monthly, single = limits.MonthlyLimit, limits.SingleTxLimit
	}
	return CardPatch{
		SpendingLimits: []SpendingLimit{
			{Amount: monthly, Interval: IntervalMonthly},
			{Amount: single, Interval: IntervalPerAuthorization},
		},
	}
}
