package augment

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	errNoJSONObject = errors.New("no JSON object in model output")
)

// extractJSONObject returns the outermost {...} span of a model reply, or the
// whole reply when it has none, provided it is a valid JSON object.
func extractJSONObject(text string) (string, error) {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return "", errNoJSONObject
	}
	return raw, nil
}
