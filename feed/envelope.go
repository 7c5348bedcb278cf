package feed

import (
	"encoding/json"
	"math"
	"strconv"
)

type envelope struct {
	Response struct {
		Body struct {
			Items json.RawMessage `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// extractItems unwraps the response/body/items/item envelope. The upstream
// API returns an array of objects, a bare object for a single item, or an
// empty string in place of the items wrapper when there is no data.
func extractItems(data []byte) ([]map[string]any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(env.Response.Body.Items, &wrapper); err != nil {
		// "items": "" stands in for an empty result set.
		return nil, nil
	}
	raw := wrapper.Item
	if len(raw) == 0 {
		return nil, nil
	}
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var one map[string]any
	if err := json.Unmarshal(raw, &one); err == nil {
		return []map[string]any{one}, nil
	}
	return nil, nil
}

// itemString reads a field that may arrive as a string or a number.
func itemString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// itemFloat reads a numeric field, tolerating string encoding. Returns NaN
// when the field is absent or unparseable.
func itemFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

// itemInt reads an integer field, tolerating string encoding.
func itemInt(m map[string]any, key string, fallback int) int {
	f := itemFloat(m, key)
	if math.IsNaN(f) {
		return fallback
	}
	return int(f)
}
