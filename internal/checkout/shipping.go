package checkout

import (
	"github.com/satriojati/go-storefront/internal/config"
	"github.com/satriojati/go-storefront/internal/payment"
)

// ShippingOptions builds the fixed tier menu for a given subtotal (minor
// units). Destination never changes the menu; only the subtotal does, through
// the free-standard threshold. The boundary is inclusive: a subtotal exactly
// at the threshold ships standard for free.
func ShippingOptions(subtotal int64, cfg config.ShippingConfig) []payment.ShippingOption {
	standard := cfg.StandardFee
	if subtotal >= cfg.FreeThreshold {
		standard = 0
	}
	return []payment.ShippingOption{
		{Name: "Standard delivery", Amount: standard, MinDays: 4, MaxDays: 7},
		{Name: "Pickup point", Amount: cfg.PickupFee, MinDays: 2, MaxDays: 5},
		{Name: "Express delivery", Amount: cfg.ExpressFee, MinDays: 1, MaxDays: 2},
	}
}
