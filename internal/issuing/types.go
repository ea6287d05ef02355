package issuing

// ShippingServiceStandard is the shipping tier used for physical cards.
const ShippingServiceStandard = "standard"

// Address is a postal address as the platform reports it.
type Address struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state,omitempty"`
}

// Cardholder is the subset of the platform's cardholder profile the service
// needs to issue cards.
type Cardholder struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"`
	PhoneNumber string  `json:"phone_number,omitempty"`
	Billing     Address `json:"billing"`
}

// Shipping describes where a physical card is sent.
type Shipping struct {
	Address     Address
	Name        string
	PhoneNumber string
	Service     string
}

// CardRequest asks the platform to issue a card.
type CardRequest struct {
	CardholderID string
	Type         string
	Currency     string
	Shipping     *Shipping
}

// Card is the platform's view of an issued card.
type Card struct {
	ID           string
	CardholderID string
	Type         string
	Currency     string
	Brand        string
	Last4        string
	Status       string
	ExpMonth     int
	ExpYear      int
}
