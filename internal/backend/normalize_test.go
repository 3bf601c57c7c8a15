package backend

import (
	"testing"

	"github.com/mercadito/console/model"
)

func TestNormalizeList_bareArray(t *testing.T) {
	body := []byte(`[{"id":1,"name":"Shoes","description":"Footwear"},{"id":2,"name":"Toys","description":"Playthings"}]`)
	items, err := NormalizeList[model.Category](body, "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "Shoes" || items[1].Name != "Toys" {
		t.Errorf("order not preserved: %+v", items)
	}
}

func TestNormalizeList_dataEnvelope(t *testing.T) {
	body := []byte(`{"data":[{"id":1,"name":"Shoes","description":"Footwear"}]}`)
	items, err := NormalizeList[model.Category](body, "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("items = %+v", items)
	}
}

func TestNormalizeList_pluralEnvelope(t *testing.T) {
	body := []byte(`{"categories":[{"id":"a","name":"Shoes","description":"Footwear"}]}`)
	items, err := NormalizeList[model.Category](body, "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("items = %+v", items)
	}
}

// All three envelope shapes carrying the same array yield the same sequence.
func TestNormalizeList_envelopeIdempotence(t *testing.T) {
	inner := `[{"id":1,"name":"A","description":"a"},{"id":2,"name":"B","description":"b"},{"id":3,"name":"C","description":"c"}]`
	shapes := []string{
		inner,
		`{"data":` + inner + `}`,
		`{"categories":` + inner + `}`,
	}

	var first []model.Category
	for i, shape := range shapes {
		items, err := NormalizeList[model.Category]([]byte(shape), "categories")
		if err != nil {
			t.Fatalf("shape %d: error: %v", i, err)
		}
		if i == 0 {
			first = items
			continue
		}
		if len(items) != len(first) {
			t.Fatalf("shape %d: len = %d, want %d", i, len(items), len(first))
		}
		for j := range items {
			if items[j] != first[j] {
				t.Errorf("shape %d item %d = %+v, want %+v", i, j, items[j], first[j])
			}
		}
	}
}

func TestNormalizeList_malformed(t *testing.T) {
	cases := []string{
		`{"data":{"not":"an array"}}`,
		`{"items":[]}`,
		`"just a string"`,
		`42`,
		``,
		`{not json`,
	}
	for _, body := range cases {
		_, err := NormalizeList[model.Category]([]byte(body), "categories")
		ee := model.AsEnvelope(err)
		if ee == nil || ee.Code != model.ErrMalformedResponse {
			t.Errorf("body %q: error = %v, want MALFORMED_RESPONSE", body, err)
		}
	}
}

func TestNormalizeList_dataPreferredOverPlural(t *testing.T) {
	body := []byte(`{"data":[{"id":1,"name":"FromData","description":"x"}],"categories":[{"id":2,"name":"FromPlural","description":"y"}]}`)
	items, err := NormalizeList[model.Category](body, "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "FromData" {
		t.Errorf("items = %+v, want the data field", items)
	}
}

func TestNormalizeList_nonArrayDataFallsThrough(t *testing.T) {
	body := []byte(`{"data":"nope","categories":[{"id":2,"name":"FromPlural","description":"y"}]}`)
	items, err := NormalizeList[model.Category](body, "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "FromPlural" {
		t.Errorf("items = %+v, want the plural field", items)
	}
}

func TestNormalizeList_emptyArray(t *testing.T) {
	items, err := NormalizeList[model.Category]([]byte(`[]`), "categories")
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", items)
	}
}
