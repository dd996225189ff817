package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satriojati/go-storefront/internal/cart"
)

// StoreFactory opens the cart store for one browsing session. Production
// binds it to the Redis persister; tests swap in memory.
type StoreFactory func(sessionID string) *cart.Store

// CartHandler exposes the session cart over HTTP so a browser client can use
// it as its durable cart storage. Mutations are total: bad quantities are
// clamped, unknown products are no-ops, and the response always carries the
// current derived totals.
type CartHandler struct {
	Stores StoreFactory
}

type addItemRequest struct {
	Product  cart.ProductView `json:"product"`
	Quantity int              `json:"quantity"`
	Size     string           `json:"size,omitempty"`
	Color    string           `json:"color,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	Items          cart.Snapshot `json:"items"`
	TotalItemCount int           `json:"totalItemCount"`
	Subtotal       int64         `json:"subtotal"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Route("/cart/{sessionID}", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.setQuantity)
		r.Delete("/items/{productID}", h.removeItem)
	})
}

func (h *CartHandler) open(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return nil, false
	}
	s := h.Stores(sessionID)
	s.Load(r.Context())
	return s, true
}

func view(s *cart.Store) cartView {
	items := s.Items()
	return cartView{
		Items:          items,
		TotalItemCount: items.TotalItemCount(),
		Subtotal:       items.Subtotal(),
	}
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Product.ID == "" {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}
	// The store clamps quantities below 1 itself.
	s.Add(r.Context(), req.Product, req.Quantity, req.Size, req.Color)
	writeJSON(w, http.StatusOK, view(s))
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.SetQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
	writeJSON(w, http.StatusOK, view(s))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	s.Remove(r.Context(), chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, view(s))
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	s.Clear(r.Context())
	writeJSON(w, http.StatusOK, view(s))
}
