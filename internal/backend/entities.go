package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mercadito/console/model"
)

// CategoryStore performs category operations against the catalog API.
type CategoryStore struct {
	client *Client
}

// List fetches and normalizes the full category list.
func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	body, err := s.client.do(ctx, http.MethodGet, "/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList[model.Category](body, "categories")
}

// Create posts a new category. The draft must already have passed
// validation; the server remains the final authority.
func (s *CategoryStore) Create(ctx context.Context, d model.CategoryDraft) error {
	payload := map[string]any{
		"name":        d.Name,
		"description": d.Description,
	}
	_, err := s.client.do(ctx, http.MethodPost, "/categories", nil, payload)
	return err
}

// Update replaces the category identified by id with the draft contents.
func (s *CategoryStore) Update(ctx context.Context, id model.ID, d model.CategoryDraft) error {
	payload := map[string]any{
		"id":          id,
		"name":        d.Name,
		"description": d.Description,
	}
	_, err := s.client.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(string(id)), nil, payload)
	return err
}

// Delete removes the category identified by id.
func (s *CategoryStore) Delete(ctx context.Context, id model.ID) error {
	_, err := s.client.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(string(id)), nil, nil)
	return err
}

// ProductStore performs product operations against the catalog API.
type ProductStore struct {
	client *Client
}

// List fetches and normalizes the full product list.
func (s *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	body, err := s.client.do(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList[model.Product](body, "products")
}

// Create posts a new product.
func (s *ProductStore) Create(ctx context.Context, d model.ProductDraft) error {
	payload, err := productPayload(d)
	if err != nil {
		return err
	}
	_, err = s.client.do(ctx, http.MethodPost, "/products", nil, payload)
	return err
}

// Update replaces the product identified by id with the draft contents.
func (s *ProductStore) Update(ctx context.Context, id model.ID, d model.ProductDraft) error {
	payload, err := productPayload(d)
	if err != nil {
		return err
	}
	payload["id"] = id
	_, err = s.client.do(ctx, http.MethodPut, "/products/"+url.PathEscape(string(id)), nil, payload)
	return err
}

// Delete removes the product identified by id.
func (s *ProductStore) Delete(ctx context.Context, id model.ID) error {
	_, err := s.client.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(string(id)), nil, nil)
	return err
}

// productPayload converts a validated draft into the typed wire payload.
// Price and stock are form strings on the draft; by the time a draft
// reaches a store it has passed validation, so parse failures here indicate
// a caller bug and surface as BAD_REQUEST rather than a panic.
func productPayload(d model.ProductDraft) (map[string]any, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return nil, model.NewBadRequestError("product price is not numeric")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if err != nil {
		return nil, model.NewBadRequestError("product stock is not an integer")
	}
	return map[string]any{
		"name":        d.Name,
		"description": d.Description,
		"price":       price,
		"stock":       stock,
		"categoryId":  d.CategoryID,
		"imageUrl":    d.ImageURL,
	}, nil
}
