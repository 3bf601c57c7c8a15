package controller

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mercadito/console/internal/validation"
	"github.com/mercadito/console/model"
)

// Categories is the controller for the category resource.
type Categories struct {
	*Resource[model.CategoryDraft, model.Category]
}

// NewCategories builds the category controller over the given store.
func NewCategories(store Store[model.CategoryDraft, model.Category], logger *zap.Logger) *Categories {
	return &Categories{
		Resource: NewResource("categories", store, validation.Categories(), logger),
	}
}

// CategorySource is the read-only view of categories the product controller
// needs to resolve names. Satisfied by *Categories.
type CategorySource interface {
	Collection() []model.Category
}

// Products is the controller for the product resource. It additionally
// resolves category ids to display names against the category collection.
type Products struct {
	*Resource[model.ProductDraft, model.Product]

	categories CategorySource
}

// NewProducts builds the product controller. The category source is read
// only; product operations never mutate categories.
func NewProducts(store Store[model.ProductDraft, model.Product], categories CategorySource, logger *zap.Logger) *Products {
	return &Products{
		Resource:   NewResource("products", store, validation.Products(), logger),
		categories: categories,
	}
}

// Views returns the product collection with each categoryId resolved to its
// category name. Products referencing an unknown category keep an empty
// name rather than failing the whole listing.
func (p *Products) Views() []model.ProductView {
	names := make(map[model.ID]string)
	for _, c := range p.categories.Collection() {
		names[c.ID] = c.Name
	}

	products := p.Collection()
	views := make([]model.ProductView, 0, len(products))
	for _, prod := range products {
		views = append(views, model.ProductView{
			Product:      prod,
			CategoryName: names[prod.CategoryID],
		})
	}
	return views
}

// CategoryOptions returns the categories as value/label pairs for the
// product form's category selector, sorted by label.
func (p *Products) CategoryOptions() []model.Option {
	cats := p.categories.Collection()
	opts := make([]model.Option, 0, len(cats))
	for _, c := range cats {
		opts = append(opts, model.Option{Value: c.ID, Label: c.Name})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
	return opts
}
