package cart

// ProductView is the denormalized display snapshot a line item keeps about its
// product. It is for rendering only; checkout re-derives price and stock from
// the catalog and ignores these values.
type ProductView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"` // minor units
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
}

type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"` // minor units, display only
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Two line items are the same entry iff product, size and color all match.
// Quantity is never split across equal identities.
func (it LineItem) sameIdentity(productID, size, color string) bool {
	return it.ProductID == productID && it.Size == size && it.Color == color
}

// Snapshot is the ordered list of line items owned by one browsing session.
type Snapshot []LineItem

func (s Snapshot) clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// TotalItemCount sums quantities over all entries.
func (s Snapshot) TotalItemCount() int {
	n := 0
	for _, it := range s {
		n += it.Quantity
	}
	return n
}

// Subtotal sums quantity times display unit price, in minor units.
func (s Snapshot) Subtotal() int64 {
	var total int64
	for _, it := range s {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}
