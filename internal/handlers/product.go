package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/es"
	"github.com/greenharvest/shop/internal/logging"
	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/mykafka"
	"github.com/greenharvest/shop/internal/store"
)

type ProductHandler struct {
	Products ProductStore
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
	Env      string
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, product *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexProduct(ctx, h.ES, h.ESIndex, product); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := store.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &min
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &max
		}
	}

	products, err := h.Products.Find(ctx, filter)
	if err != nil {
		return failInternal(c, h.Env, "error fetching products", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Products.FindByID(c.Request().Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error fetching product", err)
	}
	return respond(c, http.StatusOK, "OK", product)
}

func (h *ProductHandler) GetProductsByCategory(c echo.Context) error {
	products, err := h.Products.FindByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return failInternal(c, h.Env, "error fetching products", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

type productRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	IsNew       bool    `json:"isNew"`
	IsActive    *bool   `json:"isActive"`
}

func (req *productRequest) validate() string {
	if req.Name == "" || req.Image == "" {
		return "name and image are required"
	}
	if !models.ValidCategory(req.Category) {
		return "invalid category"
	}
	if req.Price < 0 {
		return "price cannot be negative"
	}
	if req.Stock < 0 {
		return "stock cannot be negative"
	}
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		return "rating must be between 1 and 5"
	}
	return ""
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_create")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		l.Warn("create_failed", "status", 400, "reason", msg)
		return fail(c, http.StatusBadRequest, msg)
	}

	product := models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Rating:      req.Rating,
		Stock:       req.Stock,
		IsNew:       req.IsNew,
		IsActive:    true,
	}
	if product.Description == "" {
		product.Description = models.DefaultDescription
	}
	if product.Rating == 0 {
		product.Rating = 4.5
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.Products.Create(ctx, &product); err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error creating product", err)
	}

	h.index(c, &product)
	h.publish(c, product.ID.Hex(), map[string]any{
		"type":      "product_created",
		"productID": product.ID.Hex(),
		"name":      product.Name,
	})

	l.Info("create_success", "status", 201, "productID", product.ID.Hex())
	return respond(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_update")

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	product, err := h.Products.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error updating product", err)
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	product.Image = req.Image
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Rating != 0 {
		product.Rating = req.Rating
	}
	product.Stock = req.Stock
	product.IsNew = req.IsNew
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.Products.Update(ctx, product); err != nil {
		l.Error("update_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error updating product", err)
	}

	h.index(c, product)
	h.publish(c, product.ID.Hex(), map[string]any{
		"type":      "product_updated",
		"productID": product.ID.Hex(),
		"name":      product.Name,
	})

	return respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusNotFound, "product not found")
		}
		return failInternal(c, h.Env, "error deleting product", err)
	}

	if h.ES != nil {
		esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := es.DeleteProduct(esCtx, h.ES, h.ESIndex, id.Hex()); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	h.publish(c, id.Hex(), map[string]any{
		"type":      "product_deleted",
		"productID": id.Hex(),
	})

	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// Restock raises a product's stock level by the given quantity.
func (h *ProductHandler) Restock(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return fail(c, http.StatusBadRequest, "quantity must be at least 1")
	}

	stock, err := h.Products.IncrementStock(ctx, id, req.Quantity)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error restocking product", err)
	}

	h.publish(c, id.Hex(), map[string]any{
		"type":      "product_restocked",
		"productID": id.Hex(),
		"quantity":  req.Quantity,
		"stock":     stock,
	})

	return respond(c, http.StatusOK, "Product restocked", echo.Map{"stock": stock})
}
