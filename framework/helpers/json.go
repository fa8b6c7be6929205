package helpers

import (
	"encoding/json"
	"strings"

	"golang.org/x/exp/maps"
)

// AsJSON is just a shortcut for calling json.Marshal and taking only the first result.
func AsJSON(value interface{}) []byte {
	ret, _ := json.Marshal(value)
	return ret
}

// AsJSONString calls json.Marshal and returns the result as a string.
func AsJSONString(value interface{}) string { return string(AsJSON(value)) }

// CanonicalizedJSONString reformats a JSON value so that object properties are alphabetized,
// making it easier for a human reader to find a property. Malformed JSON is returned as-is.
func CanonicalizedJSONString(data []byte) string {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return string(data)
	}
	return canonicalize(value)
}

func canonicalize(value interface{}) string {
	switch v := value.(type) {
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, canonicalize(item))
		}
		return "[" + strings.Join(items, ",") + "]"
	case map[string]interface{}:
		keys := Sorted(maps.Keys(v))
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, AsJSONString(k)+":"+canonicalize(v[k]))
		}
		return "{" + strings.Join(items, ",") + "}"
	default:
		return AsJSONString(v)
	}
}

// JSONEqual returns true if two byte slices contain the same JSON value, regardless of
// formatting and object property order.
func JSONEqual(a, b []byte) bool {
	return CanonicalizedJSONString(a) == CanonicalizedJSONString(b)
}
