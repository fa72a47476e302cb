package schema

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// StringOr returns raw trimmed when it is a non-empty string, else fallback.
func StringOr(raw any, fallback string) string {
	if s, ok := raw.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return fallback
}

// EnumOr returns raw when it is a member of allowed, else fallback.
func EnumOr(raw any, allowed []string, fallback string) string {
	if s, ok := raw.(string); ok && slices.Contains(allowed, s) {
		return s
	}
	return fallback
}

// BoolOr returns raw only when it is a real boolean. Strings such as "false"
// and numbers are not cast; they yield fallback.
func BoolOr(raw any, fallback bool) bool {
	if b, ok := raw.(bool); ok {
		return b
	}
	return fallback
}

// IconSlugOf maps an arbitrary icon name onto the shipped icon set: exact
// match first, then the ordered substring rules, then DefaultIcon.
func IconSlugOf(raw any) string {
	s, _ := raw.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultIcon
	}
	if slices.Contains(IconSlugs, s) {
		return s
	}
	for _, rule := range iconRules {
		if strings.Contains(s, rule.substr) {
			return rule.icon
		}
	}
	return DefaultIcon
}

// MenuFromAny accepts either bare anchor strings or {label, path} objects and
// keeps only entries whose path is a known anchor. Missing labels come from
// AnchorLabels. It returns nil when raw is not a non-empty array.
func MenuFromAny(raw any) []MenuItem {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	items := make([]MenuItem, 0, len(arr))
	for _, entry := range arr {
		var label, path string
		switch v := entry.(type) {
		case string:
			path = v
		case map[string]any:
			path = StringOr(v["path"], StringOr(v["href"], StringOr(v["anchor"], "")))
			label = StringOr(v["label"], StringOr(v["title"], ""))
		}
		path, ok := canonicalAnchor(path)
		if !ok {
			continue
		}
		if label == "" {
			label = AnchorLabels[path]
		}
		items = append(items, MenuItem{Label: label, Path: path})
	}
	return items
}

// EnsureHomeAndContact drops repeated paths keeping the first occurrence and
// guarantees #home comes first and #contact last, adding them when missing.
func EnsureHomeAndContact(items []MenuItem) []MenuItem {
	home := MenuItem{Label: AnchorLabels[AnchorHome], Path: AnchorHome}
	contact := MenuItem{Label: AnchorLabels[AnchorContact], Path: AnchorContact}

	seen := make(map[string]bool, len(items))
	middle := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if seen[it.Path] {
			continue
		}
		seen[it.Path] = true
		switch it.Path {
		case AnchorHome:
			home = it
		case AnchorContact:
			contact = it
		default:
			middle = append(middle, it)
		}
	}
	out := make([]MenuItem, 0, len(middle)+2)
	out = append(out, home)
	out = append(out, middle...)
	return append(out, contact)
}

// sortMenu orders items by their position in Anchors.
func sortMenu(items []MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return slices.Index(Anchors, items[i].Path) < slices.Index(Anchors, items[j].Path)
	})
}

func canonicalAnchor(path string) (string, bool) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return "", false
	}
	if !strings.HasPrefix(path, "#") {
		path = "#" + path
	}
	if path == "#service_area" {
		path = AnchorServiceArea
	}
	return path, slices.Contains(Anchors, path)
}

const (
	minQueryWords = 4
	maxQueryWords = 8
)

var (
	queryPunct = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	// queryPadWords fill short queries up to minQueryWords.
	queryPadWords = []string{"professional", "service", "business", "local", "work", "detail"}
)

// SanitizeSearchQuery prepares a stock-photo query. Apostrophes are removed
// and other punctuation becomes space, two-letter all-caps tokens (region
// codes) are dropped, and the result is clipped to eight words and padded to
// at least four.
func SanitizeSearchQuery(raw string) string {
	tokens := strings.Fields(queryPunct.ReplaceAllString(stripApostrophes(raw), " "))
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isRegionCode(tok) {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxQueryWords {
			break
		}
	}
	for _, pad := range queryPadWords {
		if len(kept) >= minQueryWords {
			break
		}
		if slices.ContainsFunc(kept, func(tok string) bool { return strings.EqualFold(tok, pad) }) {
			continue
		}
		kept = append(kept, pad)
	}
	return strings.Join(kept, " ")
}

func isRegionCode(tok string) bool {
	runes := []rune(tok)
	if len(runes) != 2 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// textOf accepts strings and JSON numbers; numbers are rendered without a
// trailing ".0".
func textOf(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func isPlaceholder(s string) bool {
	return slices.Contains(placeholderValues, strings.ToLower(strings.TrimSpace(s)))
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// asMap returns v as an object or nil.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asSlice returns v as an array or nil.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// dig walks nested objects and returns the value at path, or nil.
func dig(v any, path ...string) any {
	for _, key := range path {
		m := asMap(v)
		if m == nil {
			return nil
		}
		v = m[key]
	}
	return v
}

// firstString returns the first non-empty string among m's keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := StringOr(m[k], ""); s != "" {
			return s
		}
	}
	return ""
}

// stringList collects non-empty strings from an array, dropping duplicates
// case-insensitively.
func stringList(raw any) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range asSlice(raw) {
		s := StringOr(v, "")
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}
