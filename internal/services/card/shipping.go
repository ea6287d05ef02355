package card

import (
	"strings"

	"cardhub/internal/issuing"
)

// shippingFor builds the shipping block for a physical card from the
// cardholder's billing profile. Line2 and State are carried when present.
func shippingFor(holder *issuing.Cardholder) *issuing.Shipping {
	return &issuing.Shipping{
		Address: issuing.Address{
			City:       holder.Billing.City,
			Country:    holder.Billing.Country,
			Line1:      holder.Billing.Line1,
			Line2:      holder.Billing.Line2,
			PostalCode: holder.Billing.PostalCode,
			State:      holder.Billing.State,
		},
		Name:        strings.TrimSpace(holder.FirstName + " " + holder.LastName),
		PhoneNumber: holder.PhoneNumber,
		Service:     issuing.ShippingServiceStandard,
	}
}
