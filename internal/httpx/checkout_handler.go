package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/satriojati/go-storefront/internal/auth"
	"github.com/satriojati/go-storefront/internal/checkout"
	kafkax "github.com/satriojati/go-storefront/internal/kafka"
	"github.com/satriojati/go-storefront/internal/redisx"
)

// SessionBuilder is what the handler needs from the checkout package.
type SessionBuilder interface {
	Build(ctx context.Context, subjectID string, items []checkout.SubmittedItem) (*checkout.Result, error)
}

// Publisher matches the async kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// SessionCache is the slice of the redis client used to keep created
// sessions around for reconciliation.
type SessionCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type CheckoutHandler struct {
	Verifier auth.TokenVerifier
	Builder  SessionBuilder
	Producer Publisher    // optional
	Cache    SessionCache // optional
	Service  string
}

type checkoutRequest struct {
	CartItems []checkout.SubmittedItem `json:"cartItems"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.createSession)
}

func (h *CheckoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized - Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subject, err := h.Verifier.Verify(ctx, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cart is empty or invalid")
		return
	}

	res, err := h.Builder.Build(ctx, subject, req.CartItems)
	if err != nil {
		h.writeBuildError(w, r, err)
		return
	}

	h.recordSession(ctx, r, subject, res)

	writeJSON(w, http.StatusOK, checkoutResponse{URL: res.Session.URL})
}

// Validation failures map to specific statuses with messages naming the
// offending product; everything else is logged in full and answered
// generically so downstream detail never reaches the client.
func (h *CheckoutHandler) writeBuildError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *checkout.ProductNotFoundError
	var noStock *checkout.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "Cart is empty or invalid")
	case errors.Is(err, checkout.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, "Invalid cart item structure")
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noStock):
		writeError(w, http.StatusBadRequest, noStock.Error())
	default:
		slog.Error("checkout failed",
			"err", err,
			"request_id", r.Header.Get("X-Request-Id"),
		)
		writeError(w, http.StatusInternalServerError, "Checkout failed, please try again")
	}
}

// recordSession caches the created session for reconciliation and publishes
// the session-created event. Both are best-effort; the session already exists
// at the gateway, so the redirect must go out regardless.
func (h *CheckoutHandler) recordSession(ctx context.Context, r *http.Request, subject string, res *checkout.Result) {
	if h.Cache != nil {
		key := fmt.Sprintf(redisx.KeyCheckoutSession, res.Session.ID)
		record := map[string]any{
			"subject":        subject,
			"items":          res.Items,
			"subtotal_cents": res.Subtotal,
			"url":            res.Session.URL,
		}
		if err := h.Cache.Set(ctx, key, kafkax.MustMarshal(record), redisx.TTLCheckoutSession).Err(); err != nil {
			slog.Warn("checkout: session cache failed", "session_id", res.Session.ID, "err", err)
		}
	}

	if h.Producer != nil {
		ev := checkout.Envelope{
			EventID:       uuid.NewString(),
			EventType:     checkout.EventSessionCreated,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.Service,
			TraceID:       r.Header.Get("X-Request-Id"),
			CorrelationID: res.Session.ID,
		}
		ev.Payload = kafkax.MustMarshal(checkout.SessionCreatedPayload{
			SessionID:     res.Session.ID,
			Subject:       subject,
			Items:         res.Items,
			SubtotalCents: res.Subtotal,
		})
		h.Producer.Publish(checkout.PartitionKey(res.Session.ID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(checkout.EventSessionCreated)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
