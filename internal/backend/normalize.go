package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mercadito/console/model"
)

// NormalizeList extracts an ordered entity list from a raw list-endpoint
// response. Three envelope shapes are tolerated:
//
//   - a bare JSON array,
//   - {"data": [...]},
//   - {"<plural>": [...]} where plural is the entity-type-pluralized field
//     name (e.g. "categories").
//
// Anything else fails with MALFORMED_RESPONSE and the caller must treat the
// collection as empty. Entity contents are trusted pass-through: only the
// envelope shape is inspected, and element decoding uses whatever the
// server sent.
func NormalizeList[E any](body []byte, plural string) ([]E, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, model.NewMalformedResponseError(
			fmt.Sprintf("the %s list response was empty", plural),
		)
	}

	if trimmed[0] == '[' {
		return decodeArray[E](trimmed, plural)
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, malformed(plural)
		}
		for _, key := range []string{"data", plural} {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			if inner := bytes.TrimSpace(raw); len(inner) > 0 && inner[0] == '[' {
				return decodeArray[E](inner, plural)
			}
		}
	}

	return nil, malformed(plural)
}

func decodeArray[E any](raw []byte, plural string) ([]E, error) {
	var items []E
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed(plural)
	}
	if items == nil {
		items = []E{}
	}
	return items, nil
}

func malformed(plural string) *model.ErrorEnvelope {
	return model.NewMalformedResponseError(
		fmt.Sprintf("the %s list was not in an expected format", plural),
	)
}
