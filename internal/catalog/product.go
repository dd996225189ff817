package catalog

import "time"

// Product is the authoritative catalog row. Price is in major currency units
// as stored; checkout converts to minor units. Stock is nullable: nil means
// the product is not stock-tracked.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Image       string
	Stock       *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
