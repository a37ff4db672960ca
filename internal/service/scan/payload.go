package scan

import (
	"net/url"
	"strings"
)

// Recognised payload keys.
const (
	KeyRestaurant = "restaurantId"
	KeyTable      = "tableId"
	KeyAgent      = "aiAgentId"
)

// Payload is the decoded table barcode. Empty fields are absent.
type Payload struct {
	RestaurantID string `json:"restaurantId"`
	TableID      string `json:"tableId,omitempty"`
	AgentID      string `json:"aiAgentId,omitempty"`
}

// Decoder turns a raw barcode string into a Payload.
type Decoder func(raw string) Payload

// ParsePayload splits raw on "&" and each pair on "=", without unescaping.
// A pair lacking "=" or with an empty value marks the key absent; when a key
// repeats the last occurrence wins; unknown keys are ignored. Values that
// themselves contain "=" keep only the segment up to the next "=".
func ParsePayload(raw string) Payload {
	values := map[string]string{}
	for _, item := range strings.Split(raw, "&") {
		parts := strings.Split(item, "=")
		key := parts[0]
		if len(parts) < 2 || parts[1] == "" {
			delete(values, key)
			continue
		}
		values[key] = parts[1]
	}
	return fromValues(values)
}

// ParseQuery decodes raw as a URL query string, honouring percent-encoding.
// Malformed pairs are skipped.
func ParseQuery(raw string) Payload {
	parsed, _ := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	values := map[string]string{}
	for key, all := range parsed {
		if len(all) == 0 {
			continue
		}
		if last := all[len(all)-1]; last != "" {
			values[key] = last
		}
	}
	return fromValues(values)
}

// DecoderFor maps a configuration name to a Decoder; unknown names get the naive split.
func DecoderFor(name string) Decoder {
	if strings.EqualFold(name, "query") {
		return ParseQuery
	}
	return ParsePayload
}

func fromValues(values map[string]string) Payload {
	return Payload{
		RestaurantID: values[KeyRestaurant],
		TableID:      values[KeyTable],
		AgentID:      values[KeyAgent],
	}
}
