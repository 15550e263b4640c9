package shopapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeTags normalises a sizes or colors field. The product endpoints store
// these as a one element array holding a JSON encoded array, e.g.
// ["[\"S\",\"M\"]"]; that inner string is decoded. Any other shape is taken
// as the plain list it already is. Blank entries are dropped.
func DecodeTags(raw []string) ([]string, error) {
	if len(raw) == 1 && strings.HasPrefix(strings.TrimSpace(raw[0]), "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(raw[0]), &decoded); err != nil {
			return nil, fmt.Errorf("decode tag list %q: %w", raw[0], err)
		}

		raw = decoded
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

// EncodeTags is the inverse used for multipart uploads: the whole list as one
// JSON array string.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}

	data, _ := json.Marshal(tags)

	return string(data)
}
