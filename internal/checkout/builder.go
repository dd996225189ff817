package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/satriojati/go-storefront/internal/catalog"
	"github.com/satriojati/go-storefront/internal/config"
	"github.com/satriojati/go-storefront/internal/payment"
)

// Quantities above this are clamped, not rejected.
const maxQuantity = 100

// SubmittedProduct is the untrusted product reference inside a cart payload.
// Only ID matters for validation; Name is used to label errors and Price is
// ignored entirely, prices come from the catalog.
type SubmittedProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price,omitempty"`
}

type SubmittedItem struct {
	Product  SubmittedProduct `json:"product"`
	Quantity int              `json:"quantity"`
	Size     string           `json:"size,omitempty"`
	Color    string           `json:"color,omitempty"`
}

// ValidatedLineItem is the authoritative, per-request reconstruction of a
// cart entry: name and unit amount from the catalog row, quantity clamped.
// It lives only for the duration of one checkout request.
type ValidatedLineItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unitAmount"` // minor units
	Quantity   int    `json:"quantity"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
}

// ProductReader is the single source of truth for price and stock.
type ProductReader interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

type Result struct {
	Session  *payment.Session
	Items    []ValidatedLineItem
	Subtotal int64 // minor units
}

// Builder turns an untrusted cart payload into a hosted payment session:
// validate, re-price from the catalog, gate on stock, attach shipping tiers,
// create the gateway session. Linear, no retries, stateless per request.
type Builder struct {
	products ProductReader
	gateway  payment.Gateway

	currency         string
	successURL       string
	cancelURL        string
	allowedCountries []string
	shipping         config.ShippingConfig
}

func NewBuilder(products ProductReader, gateway payment.Gateway, cfg config.Config) *Builder {
	return &Builder{
		products:         products,
		gateway:          gateway,
		currency:         cfg.Currency,
		successURL:       cfg.SuccessURL,
		cancelURL:        cfg.CancelURL,
		allowedCountries: cfg.AllowedCountries,
		shipping:         cfg.Shipping,
	}
}

func (b *Builder) Build(ctx context.Context, subjectID string, items []SubmittedItem) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Product.ID == "" {
			return nil, ErrInvalidItem
		}
	}

	ids := distinctIDs(items)
	rows, err := b.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product lookup: %w", err)
	}

	validated := make([]ValidatedLineItem, 0, len(items))
	var subtotal int64
	for _, it := range items {
		p, ok := rows[it.Product.ID]
		if !ok {
			return nil, &ProductNotFoundError{Ref: refLabel(it)}
		}
		qty := clampQuantity(it.Quantity)
		if p.Stock != nil && *p.Stock < qty {
			return nil, &InsufficientStockError{Name: p.Name}
		}
		unit := int64(math.Round(p.Price * 100))
		subtotal += unit * int64(qty)
		validated = append(validated, ValidatedLineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitAmount: unit,
			Quantity:   qty,
			Size:       it.Size,
			Color:      it.Color,
		})
	}

	lines := make([]payment.SessionLineItem, 0, len(validated))
	for _, v := range validated {
		p := rows[v.ProductID]
		lines = append(lines, payment.SessionLineItem{
			Name:        v.Name,
			Description: p.Description,
			Image:       p.Image,
			UnitAmount:  v.UnitAmount,
			Quantity:    int64(v.Quantity),
		})
	}

	itemsJSON, err := json.Marshal(validated)
	if err != nil {
		return nil, fmt.Errorf("encode validated items: %w", err)
	}

	sess, err := b.gateway.CreateSession(ctx, payment.SessionRequest{
		LineItems:        lines,
		ShippingOptions:  ShippingOptions(subtotal, b.shipping),
		AllowedCountries: b.allowedCountries,
		Currency:         b.currency,
		SuccessURL:       b.successURL,
		CancelURL:        b.cancelURL,
		Metadata: map[string]string{
			"subject":        subjectID,
			"items":          string(itemsJSON),
			"subtotal_cents": strconv.FormatInt(subtotal, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	return &Result{Session: sess, Items: validated, Subtotal: subtotal}, nil
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > maxQuantity {
		return maxQuantity
	}
	return q
}

func distinctIDs(items []SubmittedItem) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.Product.ID] {
			seen[it.Product.ID] = true
			out = append(out, it.Product.ID)
		}
	}
	return out
}

func refLabel(it SubmittedItem) string {
	if it.Product.Name != "" {
		return it.Product.Name
	}
	return it.Product.ID
}
