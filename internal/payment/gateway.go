package payment

import "context"

// SessionLineItem is one priced entry sent to the hosted checkout page.
// UnitAmount is in minor currency units.
type SessionLineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64
	Quantity    int64
}

// ShippingOption is one tier of the fixed shipping menu, with a declared
// delivery estimate in business days.
type ShippingOption struct {
	Name    string
	Amount  int64
	MinDays int64
	MaxDays int64
}

type SessionRequest struct {
	LineItems        []SessionLineItem
	ShippingOptions  []ShippingOption
	AllowedCountries []string
	Currency         string
	SuccessURL       string
	CancelURL        string

	// Metadata travels to the gateway opaquely and comes back on completion
	// events, so payment can be reconciled against what was actually priced.
	Metadata map[string]string
}

// Session is the gateway's artifact: an opaque id and the hosted page URL.
type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted checkout sessions on the external payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
