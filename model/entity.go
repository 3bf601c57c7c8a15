// Package model defines the catalog entity types, drafts, the error
// envelope, and the request context shared by all console components.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a server-assigned, opaque entity identifier. Backends disagree on
// whether ids are JSON strings or numbers, so both are accepted on decode
// and the value is compared as a string.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Entity is implemented by catalog records held in a collection. The name
// is what the uniqueness rule compares.
type Entity interface {
	EntityID() ID
	EntityName() string
}

// Draft is an in-progress create/edit buffer. DraftID is empty for creates;
// for edits it identifies the entity being replaced.
type Draft interface {
	DraftID() ID
	DraftName() string
}

// Category is a catalog category record as returned by the backend.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Category) EntityID() ID       { return c.ID }
func (c Category) EntityName() string { return c.Name }

// CategoryDraft is the form payload for creating or editing a category.
type CategoryDraft struct {
	ID          ID     `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CategoryDraft) DraftID() ID       { return d.ID }
func (d CategoryDraft) DraftName() string { return d.Name }

// Product is a catalog product record as returned by the backend.
type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  ID              `json:"categoryId"`
	ImageURL    string          `json:"imageUrl"`
}

func (p Product) EntityID() ID       { return p.ID }
func (p Product) EntityName() string { return p.Name }

// ProductDraft is the form payload for creating or editing a product.
// Price and Stock arrive as raw form strings; the validation engine parses
// them, so non-numeric input is rejected before any backend call.
type ProductDraft struct {
	ID          ID     `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       string `json:"stock"`
	CategoryID  ID     `json:"categoryId"`
	ImageURL    string `json:"imageUrl"`
}

func (d ProductDraft) DraftID() ID       { return d.ID }
func (d ProductDraft) DraftName() string { return d.Name }

// ProductView is a product enriched with its resolved category name for
// display. CategoryName is empty when the category is unknown.
type ProductView struct {
	Product
	CategoryName string `json:"categoryName,omitempty"`
}

// Option is a (value, label) pair for form select controls.
type Option struct {
	Value ID     `json:"value"`
	Label string `json:"label"`
}

// Credentials are the token and display name issued by the backend at login.
// They are stored and cleared together; the session is only valid while
// both are present.
type Credentials struct {
	Token    string `json:"token"`
	FullName string `json:"fullName"`
}

// NormalizeName trims and lowercases a name for uniqueness comparison.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
