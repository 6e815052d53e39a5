package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/models"
)

func newProductHandler(products ...*models.Product) (*ProductHandler, *memProducts) {
	store := newMemProducts(products...)
	return &ProductHandler{Products: store}, store
}

func TestCreateProductDefaults(t *testing.T) {
	h, store := newProductHandler()

	c, rec := newJSONContext(t, http.MethodPost, "/products", map[string]any{
		"name":     "Basmati Rice",
		"category": "grains",
		"price":    180,
		"image":    "rice.jpg",
		"stock":    25,
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.products, 1)
	for _, p := range store.products {
		require.Equal(t, models.DefaultDescription, p.Description)
		require.Equal(t, 4.5, p.Rating)
		require.True(t, p.IsActive)
	}
}

func TestCreateProductRejectsBadCategory(t *testing.T) {
	h, store := newProductHandler()

	c, rec := newJSONContext(t, http.MethodPost, "/products", map[string]any{
		"name":     "Mystery Box",
		"category": "mystery",
		"price":    10,
		"image":    "box.jpg",
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.products)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	h, store := newProductHandler()

	c, rec := newJSONContext(t, http.MethodPost, "/products", map[string]any{
		"name":     "Oats",
		"category": "grains",
		"price":    -5,
		"image":    "oats.jpg",
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.products)
}

func TestGetProductsFiltersInactive(t *testing.T) {
	live := &models.Product{Name: "Carrots", Category: "vegetables", Price: 30, Stock: 10, IsActive: true}
	dead := &models.Product{Name: "Retired", Category: "vegetables", Price: 30, Stock: 0, IsActive: false}
	h, _ := newProductHandler(live, dead)

	c, rec := newJSONContext(t, http.MethodGet, "/products", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["count"])
}

func TestGetProductUnknownID(t *testing.T) {
	h, _ := newProductHandler()

	c, rec := newJSONContext(t, http.MethodGet, "/products/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRestock(t *testing.T) {
	product := &models.Product{Name: "Milk", Category: "dairy", Price: 60, Stock: 2, IsActive: true}
	h, _ := newProductHandler(product)

	c, rec := newJSONContext(t, http.MethodPatch, "/products/"+product.ID.Hex()+"/stock", map[string]int{
		"quantity": 8,
	})
	c.SetParamNames("id")
	c.SetParamValues(product.ID.Hex())
	require.NoError(t, h.Restock(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 10, product.Stock)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, float64(10), data["stock"])
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	product := &models.Product{Name: "Milk", Category: "dairy", Price: 60, Stock: 2, IsActive: true}
	h, _ := newProductHandler(product)

	c, rec := newJSONContext(t, http.MethodPatch, "/products/"+product.ID.Hex()+"/stock", map[string]int{
		"quantity": 0,
	})
	c.SetParamNames("id")
	c.SetParamValues(product.ID.Hex())
	require.NoError(t, h.Restock(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 2, product.Stock)
}
