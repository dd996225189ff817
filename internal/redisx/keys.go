package redisx

import "time"

const (
	// Cart snapshot per browsing session: cart:{session_id} -> JSON []LineItem
	KeyCartSnapshot = "cart:%s"

	// Created checkout sessions kept for reconciliation:
	// checkout:session:{session_id} -> JSON {subject, items, subtotal, url}
	KeyCheckoutSession = "checkout:session:%s"
)

var (
	TTLCartSnapshot    = 7 * 24 * time.Hour
	TTLCheckoutSession = 24 * time.Hour
)
