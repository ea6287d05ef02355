package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card types
const (
	CardTypeVirtual  = "virtual"
	CardTypePhysical = "physical"
)

// Card statuses, mirrored from the issuing platform
const (
	CardStatusActive   = "active"
	CardStatusInactive = "inactive"
	CardStatusCanceled = "canceled"
)

// Card is the local copy of an issued card. CardID joins it to the
// platform's authoritative record.
type Card struct {
	ID           string      `gorm:"primaryKey;type:uuid" json:"id"`
	CardID       string      `gorm:"uniqueIndex;not null" json:"cardId"`
	CardholderID string      `gorm:"index;not null" json:"cardholderId"`
	Type         string      `gorm:"not null" json:"type"`
	Currency     string      `gorm:"size:3;not null" json:"currency"`
	ExpMonth     int         `json:"expMonth"`
	ExpYear      int         `json:"expYear"`
	Last4        string      `gorm:"size:4" json:"last4"`
	Brand        string      `json:"brand"`
	Status       string      `gorm:"not null;default:'active'" json:"status"`
	Limits       *CardLimits `gorm:"type:jsonb" json:"limits,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// BeforeCreate assigns the primary key.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CardLimits is stored as a single document so an update always replaces it
// whole. Amounts are in the smallest currency unit.
type CardLimits struct {
	MonthlyLimit  *int64 `json:"monthlyLimit,omitempty"`
	SingleTxLimit *int64 `json:"singleTxLimit,omitempty"`
}

// Value implements the driver.Valuer interface
func (l CardLimits) Value() (driver.Value, error) {
	return jsonValue(l)
}

// Scan implements the sql.Scanner interface
func (l *CardLimits) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// CreateCardInput is the body of a card creation request.
type CreateCardInput struct {
	Type     string `json:"type" validate:"required,oneof=virtual physical"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

// UpdateCardStatusInput is the body of a status change request.
type UpdateCardStatusInput struct {
	CardID string `json:"cardId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=active inactive canceled"`
}

// UpdateCardLimitsInput is the body of a spending limit change request.
type UpdateCardLimitsInput struct {
	CardID        string `json:"cardId" validate:"required"`
	MonthlyLimit  *int64 `json:"monthlyLimit" validate:"omitempty,gte=0"`
	SingleTxLimit *int64 `json:"singleTxLimit" validate:"omitempty,gte=0"`
}

// Limits returns the sub-document that replaces the stored limits.
func (in UpdateCardLimitsInput) Limits() *CardLimits {
	return &CardLimits{
		MonthlyLimit:  in.MonthlyLimit,
		SingleTxLimit: in.SingleTxLimit,
	}
}
