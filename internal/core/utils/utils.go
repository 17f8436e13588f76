package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

func HashJSON(jsonData any) string {
	data, _ := json.Marshal(jsonData)
	return HashBytes(data)
}

func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// StripMarkup removes every HTML element from s and trims surrounding whitespace.
// Entities escaped by the sanitizer are decoded back so plain text round-trips.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
