package checkout

import "errors"

// Validation failures are deterministic and reported one at a time; the first
// one aborts the whole request. Anything else coming out of Build is a
// downstream failure and must not be leaked to the caller verbatim.
var (
	ErrEmptyCart   = errors.New("cart is empty or invalid")
	ErrInvalidItem = errors.New("invalid cart item structure")
)

// ProductNotFoundError names the offending product by client-supplied name
// when available, else by id.
type ProductNotFoundError struct{ Ref string }

func (e *ProductNotFoundError) Error() string { return "Product not found: " + e.Ref }

type InsufficientStockError struct{ Name string }

func (e *InsufficientStockError) Error() string { return "Insufficient stock for: " + e.Name }
