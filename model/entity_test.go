package model

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON_string(t *testing.T) {
	var c Category
	if err := json.Unmarshal([]byte(`{"id":"cat-7","name":"Shoes"}`), &c); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if c.ID != "cat-7" {
		t.Errorf("ID = %q, want cat-7", c.ID)
	}
}

func TestID_UnmarshalJSON_number(t *testing.T) {
	var c Category
	if err := json.Unmarshal([]byte(`{"id":42,"name":"Shoes"}`), &c); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if c.ID != "42" {
		t.Errorf("ID = %q, want 42", c.ID)
	}
}

func TestID_UnmarshalJSON_null(t *testing.T) {
	var c Category
	if err := json.Unmarshal([]byte(`{"id":null,"name":"Shoes"}`), &c); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if c.ID != "" {
		t.Errorf("ID = %q, want empty", c.ID)
	}
}

func TestID_UnmarshalJSON_invalid(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"nested":true}`), &id); err == nil {
		t.Error("expected error for object id")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Shoes", "shoes"},
		{"  Shoes  ", "shoes"},
		{"SHOES", "shoes"},
		{"", ""},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProduct_roundTrip(t *testing.T) {
	raw := `{"id":1,"name":"Ball","description":"A ball","price":9.99,"stock":3,"categoryId":2,"imageUrl":"https://cdn/x.png"}`
	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if p.ID != "1" || p.CategoryID != "2" {
		t.Errorf("ids = %q/%q, want 1/2", p.ID, p.CategoryID)
	}
	if p.Price.String() != "9.99" {
		t.Errorf("price = %s, want 9.99", p.Price)
	}
	if p.Stock != 3 {
		t.Errorf("stock = %d, want 3", p.Stock)
	}
}
