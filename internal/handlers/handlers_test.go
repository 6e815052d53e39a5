package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/store"
)

// In-memory stand-ins for the document store, mirroring the semantics of
// the MongoDB implementations in internal/store.

type memUsers struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

type memProducts struct {
	products map[primitive.ObjectID]*models.Product
}

func newMemProducts(products ...*models.Product) *memProducts {
	m := &memProducts{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *memProducts) Find(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return m.Find(ctx, store.ProductFilter{Category: category})
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func (m *memProducts) Create(_ context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	m.products[product.ID] = product
	return nil
}

func (m *memProducts) Update(_ context.Context, product *models.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return models.ErrNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	p, ok := m.products[id]
	if !ok || p.Stock < quantity {
		return models.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (m *memProducts) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int) (int, error) {
	p, ok := m.products[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	p.Stock += quantity
	return p.Stock, nil
}

type memCarts struct {
	carts map[primitive.ObjectID]*models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (m *memCarts) FindOrCreate(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	c := &models.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: []models.CartItem{}}
	m.carts[userID] = c
	return c, nil
}

func (m *memCarts) Save(_ context.Context, cart *models.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

type memOrders struct {
	orders map[primitive.ObjectID]*models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[primitive.ObjectID]*models.Order{}}
}

func (m *memOrders) Create(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (m *memOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) FindAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status, paymentStatus string) error {
	o, ok := m.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	o.Status = status
	if paymentStatus != "" {
		o.PaymentStatus = paymentStatus
	}
	return nil
}

type memWishlists struct {
	wishlists map[primitive.ObjectID]*models.Wishlist
}

func newMemWishlists() *memWishlists {
	return &memWishlists{wishlists: map[primitive.ObjectID]*models.Wishlist{}}
}

func (m *memWishlists) FindOrCreate(_ context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	if w, ok := m.wishlists[userID]; ok {
		return w, nil
	}
	w := &models.Wishlist{ID: primitive.NewObjectID(), UserID: userID, Items: []models.WishlistItem{}}
	m.wishlists[userID] = w
	return w, nil
}

func (m *memWishlists) Save(_ context.Context, wishlist *models.Wishlist) error {
	wishlist.Dedupe()
	m.wishlists[wishlist.UserID] = wishlist
	return nil
}

// request helpers

func newJSONContext(t *testing.T, method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return c, rec
}

func asUser(c echo.Context, userID primitive.ObjectID, role string) {
	c.Set("userID", userID)
	c.Set("role", role)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
