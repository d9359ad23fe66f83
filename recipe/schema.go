package recipe

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxSchemaDepth bounds the walk through nested JSON-LD documents.
const maxSchemaDepth = 8

// schemaRecipe is the subset of a schema.org Recipe node this service reads.
type schemaRecipe struct {
	Name        string
	Ingredients []string
}

// findSchemaRecipe returns the first schema.org Recipe found in the page's
// JSON-LD blocks. Recipes are commonly nested in @graph arrays or under a
// WebPage's mainEntity, so the whole document is walked.
func findSchemaRecipe(doc *goquery.Document) (*schemaRecipe, bool) {
	var found *schemaRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}
		data, err := decodeJSONLD(raw)
		if err != nil {
			slog.Debug("skipping malformed JSON-LD block", "error", err)
			return true
		}
		if node, ok := findRecipeNode(data, 0); ok {
			found = parseRecipeNode(node)
			return false
		}
		return true
	})
	return found, found != nil
}

// decodeJSONLD parses a JSON-LD block. Raw control characters inside
// strings are invalid JSON but common in CMS output, so a failed parse is
// retried with them escaped. The escapes keep line breaks, which stringList
// relies on to split ingredient blobs.
func decodeJSONLD(raw string) (any, error) {
	var data any
	err := json.Unmarshal([]byte(raw), &data)
	if err == nil {
		return data, nil
	}
	if retryErr := json.Unmarshal([]byte(escapeControlChars(raw)), &data); retryErr != nil {
		return nil, err
	}
	return data, nil
}

// escapeControlChars rewrites raw control characters inside JSON string
// literals as escape sequences. Whitespace between tokens is left alone.
func escapeControlChars(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inString, escaped := false, false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case !inString:
			inString = c == '"'
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = false
		case c < 0x20:
			switch c {
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				fmt.Fprintf(&b, `\u%04x`, c)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func findRecipeNode(v any, depth int) (map[string]any, bool) {
	if depth > maxSchemaDepth {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		if isRecipeType(t["@type"]) {
			return t, true
		}
		for _, key := range []string{"@graph", "mainEntity", "mainEntityOfPage", "itemListElement", "item"} {
			if child, ok := t[key]; ok {
				if node, ok := findRecipeNode(child, depth+1); ok {
					return node, true
				}
			}
		}
	case []any:
		for _, item := range t {
			if node, ok := findRecipeNode(item, depth+1); ok {
				return node, true
			}
		}
	}
	return nil, false
}

// isRecipeType matches "Recipe", "schema:Recipe" and arrays containing either.
func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Recipe" || strings.HasSuffix(t, ":Recipe") || strings.HasSuffix(t, "/Recipe")
	case []any:
		for _, item := range t {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}

func parseRecipeNode(node map[string]any) *schemaRecipe {
	r := &schemaRecipe{Name: normalizeString(stringValue(node["name"]))}

	raw, ok := node["recipeIngredient"]
	if !ok {
		// Pre-2015 schema.org name for the same property.
		raw = node["ingredients"]
	}
	r.Ingredients = normalizeList(stringList(raw))
	return r
}

// stringValue flattens a JSON-LD value to a string: strings as-is, the
// first element of arrays, and the @value or name of objects.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			return stringValue(t[0])
		}
	case map[string]any:
		if s, ok := t["@value"]; ok {
			return stringValue(s)
		}
		if s, ok := t["name"]; ok {
			return stringValue(s)
		}
	}
	return ""
}

// stringList flattens an ingredient property. A single string is split on
// newlines, since some sites emit the whole list as one text blob.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Split(t, "\n")
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
