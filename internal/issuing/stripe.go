package issuing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"cardhub/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

type cardAPI interface {
	New(params *stripe.IssuingCardParams) (*stripe.IssuingCard, error)
	Update(id string, params *stripe.IssuingCardParams) (*stripe.IssuingCard, error)
}

type cardholderAPI interface {
	Get(id string, params *stripe.IssuingCardholderParams) (*stripe.IssuingCardholder, error)
}

// StripePlatform implements Platform on Stripe Issuing.
type StripePlatform struct {
	cards       cardAPI
	cardholders cardholderAPI
}

func NewStripePlatform(secretKey string) *StripePlatform {
	sc := client.New(secretKey, nil)
	return &StripePlatform{
		cards:       sc.IssuingCards,
		cardholders: sc.IssuingCardholders,
	}
}

func (p *StripePlatform) SearchCardholder(ctx context.Context, cardholderID string) (*Cardholder, error) {
	params := &stripe.IssuingCardholderParams{}
	params.Context = ctx

	ch, err := p.cardholders.Get(cardholderID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, ErrCardholderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cardholder: %w", err)
	}
	return cardholderFromStripe(ch), nil
}

func (p *StripePlatform) CreateCard(ctx context.Context, req CardRequest, idempotencyKey string) (*Card, error) {
	params := cardParams(req)
	params.Context = ctx
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}

	c, err := p.cards.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	card := cardFromStripe(c)
	if card.CardholderID == "" {
		card.CardholderID = req.CardholderID
	}
	log.Printf("Issued %s card %s for cardholder %s", card.Type, card.ID, card.CardholderID)
	return card, nil
}

func (p *StripePlatform) UpdateCard(ctx context.Context, cardID string, patch models.CardPatch, idempotencyKey string) error {
	params := patchParams(patch)
	params.Context = ctx
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}

	if _, err := p.cards.Update(cardID, params); err != nil {
		return fmt.Errorf("failed to update card %s: %w", cardID, err)
	}
	return nil
}

func cardParams(req CardRequest) *stripe.IssuingCardParams {
	params := &stripe.IssuingCardParams{
		Cardholder: stripe.String(req.CardholderID),
		Type:       stripe.String(req.Type),
		Currency:   stripe.String(req.Currency),
	}

	if s := req.Shipping; s != nil {
		params.Shipping = &stripe.IssuingCardShippingParams{
			Address: addressParams(s.Address),
			Name:    s.Name,
		}
		if s.Service != "" {
			params.Shipping.Service = stripe.String(s.Service)
		}
		// v72 has no typed phone_number on shipping
		if s.PhoneNumber != "" {
			params.AddExtra("shipping[phone_number]", s.PhoneNumber)
		}
	}
	return params
}

func addressParams(a Address) *stripe.AddressParams {
	ap := &stripe.AddressParams{
		City:       stripe.String(a.City),
		Country:    stripe.String(a.Country),
		Line1:      stripe.String(a.Line1),
		PostalCode: stripe.String(a.PostalCode),
	}
	if a.Line2 != "" {
		ap.Line2 = stripe.String(a.Line2)
	}
	if a.State != "" {
		ap.State = stripe.String(a.State)
	}
	return ap
}

func patchParams(patch models.CardPatch) *stripe.IssuingCardParams {
	params := &stripe.IssuingCardParams{}
	if patch.Status != "" {
		params.Status = stripe.String(patch.Status)
	}
	if len(patch.SpendingLimits) > 0 {
		limits := make([]*stripe.IssuingCardSpendingControlsSpendingLimitParams, 0, len(patch.SpendingLimits))
		for _, l := range patch.SpendingLimits {
			lp := &stripe.IssuingCardSpendingControlsSpendingLimitParams{
				Interval: stripe.String(l.Interval),
			}
			if l.Amount != nil {
				lp.Amount = stripe.Int64(*l.Amount)
			}
			limits = append(limits, lp)
		}
		params.SpendingControls = &stripe.IssuingCardSpendingControlsParams{
			SpendingLimits: limits,
		}
	}
	return params
}

func cardholderFromStripe(ch *stripe.IssuingCardholder) *Cardholder {
	out := &Cardholder{
		ID:          ch.ID,
		PhoneNumber: ch.PhoneNumber,
	}
	if ch.Individual != nil {
		out.FirstName = ch.Individual.FirstName
		out.LastName = ch.Individual.LastName
	}
	if ch.Billing != nil && ch.Billing.Address != nil {
		a := ch.Billing.Address
		out.Billing = Address{
			City:       a.City,
			Country:    a.Country,
			Line1:      a.Line1,
			Line2:      a.Line2,
			PostalCode: a.PostalCode,
			State:      a.State,
		}
	}
	return out
}

func cardFromStripe(c *stripe.IssuingCard) *Card {
	out := &Card{
		ID:       c.ID,
		Type:     string(c.Type),
		Currency: string(c.Currency),
		Brand:    c.Brand,
		Last4:    c.Last4,
		Status:   string(c.Status),
		ExpMonth: int(c.ExpMonth),
		ExpYear:  int(c.ExpYear),
	}
	if c.Cardholder != nil {
		out.CardholderID = c.Cardholder.ID
	}
	return out
}

func isResourceMissing(err error) bool {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return serr.Code == stripe.ErrorCodeResourceMissing || serr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
