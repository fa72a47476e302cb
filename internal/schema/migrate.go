package schema

import "strings"

// Shape identifies which generation of the business document an input
// follows.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeCurrent
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeCurrent:
		return "current"
	case ShapeLegacy:
		return "legacy"
	}
	return "unknown"
}

// IsCurrentSchema reports whether doc has the markers of the current schema.
func IsCurrentSchema(doc map[string]any) bool {
	if _, ok := dig(doc, "intelligence", "industry").(string); !ok {
		return false
	}
	return dig(doc, "brand", "name") != nil && dig(doc, "hero", "subtext") != nil
}

// IsLegacySchema reports whether doc carries any superseded field.
func IsLegacySchema(doc map[string]any) bool {
	intel := asMap(doc["intelligence"])
	if _, ok := intel["business_name"]; ok {
		return true
	}
	if _, ok := intel["site_for"]; ok {
		return true
	}
	if dig(doc, "hero", "subheadline") != nil || dig(doc, "about", "content") != nil {
		return true
	}
	if asSlice(doc["gallery"]) != nil {
		return true
	}
	for _, menu := range legacyMenus(doc) {
		if isStringArray(menu) {
			return true
		}
	}
	return false
}

// Detect classifies doc. The checks are heuristics and may both match; the
// current schema is tested first.
func Detect(doc map[string]any) Shape {
	switch {
	case IsCurrentSchema(doc):
		return ShapeCurrent
	case IsLegacySchema(doc):
		return ShapeLegacy
	}
	return ShapeUnknown
}

// Upgrade returns a copy of doc in the current shape along with the shape it
// was detected as. Current and unrecognized documents pass through unchanged;
// the normalizer absorbs whatever is left.
func Upgrade(doc map[string]any) (map[string]any, Shape) {
	shape := Detect(doc)
	if shape == ShapeLegacy {
		return Migrate(doc), shape
	}
	return deepCopyMap(doc), shape
}

// Migrate rewrites a legacy document into the current schema. It never fails
// and does not modify doc.
func Migrate(legacy map[string]any) map[string]any {
	doc := deepCopyMap(legacy)
	intel := ensureMap(doc, "intelligence")
	brand := ensureMap(doc, "brand")
	hero := ensureMap(doc, "hero")

	if name := StringOr(intel["business_name"], StringOr(doc["business_name"], "")); name != "" && StringOr(brand["name"], "") == "" {
		brand["name"] = name
	}
	if siteFor := StringOr(intel["site_for"], ""); siteFor != "" && StringOr(intel["industry"], "") == "" {
		intel["industry"] = siteFor
	}
	delete(intel, "business_name")
	delete(intel, "site_for")
	delete(doc, "business_name")
	if _, ok := intel["industry"].(string); !ok {
		intel["industry"] = "local services"
	}
	if StringOr(brand["name"], "") == "" {
		brand["name"] = "Your Business"
	}

	moveField(hero, "subheadline", "subtext")
	if StringOr(hero["subtext"], "") == "" {
		hero["subtext"] = StringOr(hero["headline"], "Fast, simple, and professional from first contact to completion.")
	}
	if about := asMap(doc["about"]); about != nil {
		moveField(about, "content", "story_text")
	}

	scrubPlaceholders(brand, "email", "phone", "office_address")
	if contact := asMap(doc["contact"]); contact != nil {
		scrubPlaceholders(contact, "email", "phone", "office_address", "email_recipient")
	}

	migrateMenu(doc)
	migrateGallery(doc)
	hadStrategy := asMap(doc["strategy"]) != nil
	migrateServiceArea(doc, hadStrategy)
	if !hadStrategy {
		doc["strategy"] = legacyStrategy(doc)
	}
	return doc
}

// legacyMenus returns the places older generators kept the menu.
func legacyMenus(doc map[string]any) []any {
	return []any{dig(doc, "settings", "menu"), dig(doc, "strategy", "menu"), doc["menu"]}
}

func isStringArray(v any) bool {
	arr := asSlice(v)
	if len(arr) == 0 {
		return false
	}
	for _, e := range arr {
		if _, ok := e.(string); !ok {
			return false
		}
	}
	return true
}

func migrateMenu(doc map[string]any) {
	settings := ensureMap(doc, "settings")
	var source any
	for _, menu := range legacyMenus(doc) {
		if asSlice(menu) != nil {
			source = menu
			break
		}
	}
	if strategy := asMap(doc["strategy"]); strategy != nil {
		delete(strategy, "menu")
	}
	delete(doc, "menu")
	if source == nil {
		return
	}
	items := MenuFromAny(source)
	menu := make([]any, 0, len(items))
	for _, it := range items {
		menu = append(menu, map[string]any{"label": it.Label, "path": it.Path})
	}
	settings["menu"] = menu
}

// migrateGallery wraps an array-shaped gallery into the items object. Legacy
// entries often carried only alt text or a filename.
func migrateGallery(doc map[string]any) {
	arr := asSlice(doc["gallery"])
	if arr == nil {
		return
	}
	items := make([]any, 0, len(arr))
	for _, v := range arr {
		it := asMap(v)
		if it == nil {
			if s := StringOr(v, ""); s != "" {
				items = append(items, map[string]any{"image_search_query": s})
			}
			continue
		}
		item := map[string]any{}
		if q := firstString(it, "image_search_query", "alt"); q != "" {
			item["image_search_query"] = q
		}
		if t := firstString(it, "title", "alt"); t != "" {
			item["title"] = t
		}
		if d := firstString(it, "description", "caption"); d != "" {
			item["description"] = d
		}
		if len(item) > 0 {
			items = append(items, item)
		}
	}
	doc["gallery"] = map[string]any{"items": items}
}

// migrateServiceArea assembles service_area from whichever city fields the
// legacy document used. Without any city the section is removed.
func migrateServiceArea(doc map[string]any, hadStrategy bool) {
	area := asMap(doc["service_area"])
	intel := asMap(doc["intelligence"])

	mainCity := firstNonEmpty(
		StringOr(area["main_city"], ""),
		StringOr(doc["main_city"], ""),
		StringOr(intel["main_city"], ""),
	)
	var cities []string
	cities = append(cities, stringList(area["surrounding_cities"])...)
	cities = append(cities, stringList(doc["surrounding_cities"])...)
	for _, loc := range asSlice(doc["locations"]) {
		switch l := loc.(type) {
		case string:
			cities = append(cities, strings.TrimSpace(l))
		case map[string]any:
			cities = append(cities, firstString(l, "city", "name"))
		}
	}
	delete(doc, "main_city")
	delete(doc, "surrounding_cities")
	delete(doc, "locations")
	delete(intel, "main_city")

	cities = dedupeStrings(cities)
	if mainCity == "" && len(cities) > 0 {
		mainCity, cities = cities[0], cities[1:]
	}
	if mainCity == "" {
		delete(doc, "service_area")
		if strategy := asMap(doc["strategy"]); strategy != nil && hadStrategy {
			strategy[ShowServiceArea] = false
		}
		return
	}

	out := map[string]any{}
	for k, v := range area {
		out[k] = v
	}
	out["main_city"] = mainCity
	list := make([]any, 0, len(cities))
	for _, c := range cities {
		list = append(list, c)
	}
	out["surrounding_cities"] = list
	doc["service_area"] = out
}

// legacyStrategy synthesizes flags for documents that predate the strategy
// section. Everything is off except structural sections the document has
// data for.
func legacyStrategy(doc map[string]any) map[string]any {
	strategy := make(map[string]any, len(StrategyFlags))
	for _, flag := range StrategyFlags {
		strategy[flag] = false
	}
	has := func(key string) bool {
		v, ok := doc[key]
		return ok && v != nil
	}
	strategy[ShowAbout] = has("about")
	strategy[ShowFeatures] = len(asSlice(doc["features"])) > 0
	strategy[ShowGallery] = len(asSlice(dig(doc, "gallery", "items"))) > 0
	strategy[ShowFAQs] = len(itemsOf(doc["faqs"], "items")) > 0
	strategy[ShowProcess] = len(itemsOf(firstPresent(doc, "processSteps", "process_steps", "process"), "steps", "items")) > 0
	strategy[ShowTrustbar] = len(itemsOf(doc["trustbar"], "items")) > 0
	strategy[ShowServiceArea] = has("service_area")
	return strategy
}

func moveField(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	delete(m, from)
	if StringOr(m[to], "") == "" {
		m[to] = v
	}
}

func scrubPlaceholders(m map[string]any, keys ...string) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && isPlaceholder(s) {
			delete(m, k)
		}
	}
}

func ensureMap(doc map[string]any, key string) map[string]any {
	if m := asMap(doc[key]); m != nil {
		return m
	}
	m := map[string]any{}
	doc[key] = m
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
