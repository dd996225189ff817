package checkout

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriojati/go-storefront/internal/catalog"
	"github.com/satriojati/go-storefront/internal/config"
	"github.com/satriojati/go-storefront/internal/payment"
)

type stubProducts struct {
	rows   map[string]catalog.Product
	err    error
	gotIDs []string
}

func (s *stubProducts) GetByIDs(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	s.gotIDs = ids
	return s.rows, s.err
}

type stubGateway struct {
	calls   int
	lastReq payment.SessionRequest
	sess    *payment.Session
	err     error
}

func (g *stubGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.sess, nil
}

func intPtr(n int) *int { return &n }

func testConfig() config.Config {
	return config.Config{
		Currency:         "eur",
		SuccessURL:       "https://shop.test/success",
		CancelURL:        "https://shop.test/cart",
		AllowedCountries: []string{"NL", "BE"},
		Shipping: config.ShippingConfig{
			FreeThreshold: 5000,
			StandardFee:   495,
			PickupFee:     395,
			ExpressFee:    995,
		},
	}
}

func newTestBuilder(products *stubProducts, gw *stubGateway) *Builder {
	if gw.sess == nil && gw.err == nil {
		gw.sess = &payment.Session{ID: "cs_test_1", URL: "https://pay.test/cs_test_1"}
	}
	return NewBuilder(products, gw, testConfig())
}

func TestBuild_EmptyCart(t *testing.T) {
	b := newTestBuilder(&stubProducts{}, &stubGateway{})

	_, err := b.Build(context.Background(), "user-1", nil)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuild_MissingProductID(t *testing.T) {
	b := newTestBuilder(&stubProducts{}, &stubGateway{})

	_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: ""}, Quantity: 1},
	})

	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestBuild_PriceComesFromCatalogNotClient(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Price: 20.00, Stock: intPtr(10)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	// Client asserts a price of 0.01; validation must ignore it entirely.
	res, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1", Price: 0.01}, Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2000), res.Items[0].UnitAmount)
	assert.Equal(t, int64(4000), res.Subtotal)
	require.Len(t, gw.lastReq.LineItems, 1)
	assert.Equal(t, int64(2000), gw.lastReq.LineItems[0].UnitAmount)
}

func TestBuild_StockGateFailsWholeRequest(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Price: 20.00, Stock: intPtr(3)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: 4},
	})

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "Crew Shirt", noStock.Name)
	assert.Zero(t, gw.calls, "no session may be created after a stock failure")
}

func TestBuild_NilStockIsNotTracked(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Price: 20.00, Stock: nil},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	res, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: 50},
	})

	require.NoError(t, err)
	assert.Equal(t, 50, res.Items[0].Quantity)
}

func TestBuild_QuantityClampedToRange(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Price: 10.00, Stock: intPtr(500)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	res, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Items[0].Quantity)

	res, err = b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: -2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Items[0].Quantity)
}

func TestBuild_MissingProductNamesTheMissingOne(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Price: 20.00, Stock: intPtr(10)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: 1},
		{Product: SubmittedProduct{ID: "ghost", Name: "Ghost Jacket"}, Quantity: 1},
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Ghost Jacket", notFound.Ref)
	assert.Zero(t, gw.calls)
	assert.ElementsMatch(t, []string{"p1", "ghost"}, products.gotIDs)
}

func TestBuild_MissingProductFallsBackToID(t *testing.T) {
	b := newTestBuilder(&stubProducts{rows: map[string]catalog.Product{}}, &stubGateway{})

	_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "ghost"}, Quantity: 1},
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Ref)
}

func TestBuild_SessionRequestContents(t *testing.T) {
	products := &stubProducts{rows: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Crew Shirt", Description: "heavy cotton", Price: 20.00, Image: "shirt.jpg", Stock: intPtr(10)},
		"p2": {ID: "p2", Name: "Stone Mug", Price: 15.00, Stock: intPtr(4)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	res, err := b.Build(context.Background(), "user-42", []SubmittedItem{
		{Product: SubmittedProduct{ID: "p1"}, Quantity: 2, Size: "M"},
		{Product: SubmittedProduct{ID: "p2"}, Quantity: 1},
	})
	require.NoError(t, err)

	req := gw.lastReq
	require.Len(t, req.LineItems, 2)
	assert.Equal(t, "Crew Shirt", req.LineItems[0].Name)
	assert.Equal(t, "heavy cotton", req.LineItems[0].Description)
	assert.Equal(t, "shirt.jpg", req.LineItems[0].Image)
	assert.Equal(t, int64(2), req.LineItems[0].Quantity)
	assert.Equal(t, "eur", req.Currency)
	assert.Equal(t, "https://shop.test/success", req.SuccessURL)
	assert.Equal(t, []string{"NL", "BE"}, req.AllowedCountries)
	require.Len(t, req.ShippingOptions, 3)

	// Subtotal 5500 clears the 5000 threshold: standard ships free.
	assert.Equal(t, int64(5500), res.Subtotal)
	assert.Equal(t, int64(0), req.ShippingOptions[0].Amount)

	assert.Equal(t, "user-42", req.Metadata["subject"])
	assert.Equal(t, strconv.FormatInt(res.Subtotal, 10), req.Metadata["subtotal_cents"])
	assert.Contains(t, req.Metadata["items"], `"productId":"p1"`)
	assert.Contains(t, req.Metadata["items"], `"size":"M"`)
}

func TestBuild_EndToEndOutOfStockScenario(t *testing.T) {
	// Cart: A qty 2 size M, B qty 1. A is priced 20.00 with stock 10,
	// B 15.00 with stock 0. The whole request fails naming B and the
	// gateway is never called.
	products := &stubProducts{rows: map[string]catalog.Product{
		"A": {ID: "A", Name: "Product A", Price: 20.00, Stock: intPtr(10)},
		"B": {ID: "B", Name: "Product B", Price: 15.00, Stock: intPtr(0)},
	}}
	gw := &stubGateway{}
	b := newTestBuilder(products, gw)

	_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
		{Product: SubmittedProduct{ID: "A"}, Quantity: 2, Size: "M"},
		{Product: SubmittedProduct{ID: "B"}, Quantity: 1},
	})

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "Product B", noStock.Name)
	assert.Zero(t, gw.calls)
}

func TestBuild_DownstreamFailuresAreWrapped(t *testing.T) {
	t.Run("catalog error", func(t *testing.T) {
		b := newTestBuilder(&stubProducts{err: errors.New("db down")}, &stubGateway{})
		_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
			{Product: SubmittedProduct{ID: "p1"}, Quantity: 1},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product lookup")
	})

	t.Run("gateway error", func(t *testing.T) {
		products := &stubProducts{rows: map[string]catalog.Product{
			"p1": {ID: "p1", Name: "Crew Shirt", Price: 20.00, Stock: intPtr(10)},
		}}
		b := newTestBuilder(products, &stubGateway{err: errors.New("gateway down")})
		_, err := b.Build(context.Background(), "user-1", []SubmittedItem{
			{Product: SubmittedProduct{ID: "p1"}, Quantity: 1},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create payment session")
	})
}
