// Package validation implements the pure, synchronous rule engine that
// gates drafts before they are submitted to the backend. Rules are
// evaluated in order and the first failure wins, so the error a user sees
// is deterministic and singular.
package validation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mercadito/console/model"
)

// Mode distinguishes create from edit validation. In edit mode the entity
// being edited is excluded from the uniqueness comparison by identity.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Rule checks one aspect of a draft against the currently known collection.
// A nil return means the rule passed.
type Rule[D model.Draft, E model.Entity] func(d D, collection []E, mode Mode) *model.FieldError

// Engine evaluates an ordered rule list. It performs no I/O and never
// suspends; success only means the draft is eligible for submission.
type Engine[D model.Draft, E model.Entity] struct {
	rules []Rule[D, E]
}

// NewEngine creates an engine from an ordered rule list.
func NewEngine[D model.Draft, E model.Entity](rules ...Rule[D, E]) *Engine[D, E] {
	return &Engine[D, E]{rules: rules}
}

// Validate runs the rules in order and returns the first failure, or nil
// when the draft passes.
func (e *Engine[D, E]) Validate(d D, collection []E, mode Mode) *model.FieldError {
	for _, rule := range e.rules {
		if fe := rule(d, collection, mode); fe != nil {
			return fe
		}
	}
	return nil
}

// Categories returns the rule engine for category drafts.
func Categories() *Engine[model.CategoryDraft, model.Category] {
	return NewEngine(
		categoryRequired,
		categoryNameLength,
		uniqueName[model.CategoryDraft, model.Category]("category"),
	)
}

// Products returns the rule engine for product drafts.
func Products() *Engine[model.ProductDraft, model.Product] {
	return NewEngine(
		productRequired,
		productNumbers,
		uniqueName[model.ProductDraft, model.Product]("product"),
	)
}

// --- category rules ---

func categoryRequired(d model.CategoryDraft, _ []model.Category, _ Mode) *model.FieldError {
	if strings.TrimSpace(d.Name) == "" {
		return required("name", "The category name is required.")
	}
	if strings.TrimSpace(d.Description) == "" {
		return required("description", "The category description is required.")
	}
	return nil
}

func categoryNameLength(d model.CategoryDraft, _ []model.Category, _ Mode) *model.FieldError {
	if len([]rune(strings.TrimSpace(d.Name))) < 3 {
		return &model.FieldError{
			Field:   "name",
			Code:    "min_length",
			Message: "The name must be at least 3 characters long.",
		}
	}
	return nil
}

// --- product rules ---

func productRequired(d model.ProductDraft, _ []model.Product, _ Mode) *model.FieldError {
	fields := []struct {
		name, value, message string
	}{
		{"name", d.Name, "The product name is required."},
		{"description", d.Description, "The product description is required."},
		{"price", d.Price, "The product price is required."},
		{"stock", d.Stock, "The product stock is required."},
		{"categoryId", string(d.CategoryID), "The product category is required."},
		{"imageUrl", d.ImageURL, "The product image URL is required."},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return required(f.name, f.message)
		}
	}
	return nil
}

// productNumbers rejects non-numeric input before the sign check, so a
// draft never reaches the backend with an unparsable price or stock.
func productNumbers(d model.ProductDraft, _ []model.Product, _ Mode) *model.FieldError {
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return &model.FieldError{
			Field:   "price",
			Code:    "not_numeric",
			Message: "The price must be a number.",
		}
	}
	stock, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if err != nil {
		return &model.FieldError{
			Field:   "stock",
			Code:    "not_numeric",
			Message: "The stock must be a whole number.",
		}
	}
	if price.IsNegative() {
		return &model.FieldError{
			Field:   "price",
			Code:    "negative",
			Message: "The price must not be negative.",
		}
	}
	if stock < 0 {
		return &model.FieldError{
			Field:   "stock",
			Code:    "negative",
			Message: "The stock must not be negative.",
		}
	}
	return nil
}

// --- shared rules ---

// uniqueName enforces case-insensitive, trimmed name uniqueness against the
// collection. In edit mode the draft's own entity is excluded by identity,
// so an entity may keep its current name.
func uniqueName[D model.Draft, E model.Entity](kind string) Rule[D, E] {
	return func(d D, collection []E, mode Mode) *model.FieldError {
		name := model.NormalizeName(d.DraftName())
		for _, existing := range collection {
			if mode == ModeEdit && existing.EntityID() == d.DraftID() {
				continue
			}
			if model.NormalizeName(existing.EntityName()) == name {
				return &model.FieldError{
					Field:   "name",
					Code:    "duplicate",
					Message: "A " + kind + " with that name already exists.",
				}
			}
		}
		return nil
	}
}

func required(field, message string) *model.FieldError {
	return &model.FieldError{Field: field, Code: "required", Message: message}
}
