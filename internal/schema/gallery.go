package schema

import (
	"fmt"
	"strings"
)

const (
	minGalleryItems = 6
	maxGalleryItems = 12
	// fallbackTopicWords is how much of the industry a fallback query keeps.
	fallbackTopicWords = 4
)

var GalleryLayouts = []string{"grid", "bento", "masonry"}

// galleryFallbacks top up thin galleries. Subjects are appended to the
// industry so the searches stay on topic while differing from each other.
var galleryFallbacks = []struct {
	title   string
	subject string
}{
	{"Recent project", "project finished result"},
	{"On the job", "team at work"},
	{"Attention to detail", "close up detail"},
	{"Tools of the trade", "tools and equipment"},
	{"Our workspace", "workspace interior"},
	{"Client consultation", "customer consultation"},
	{"Work in progress", "work in progress"},
	{"Finishing touches", "final inspection"},
}

// gallery normalizes items, removes repeats of the same (query, title) pair
// and tops the list up to minGalleryItems from industry fallbacks.
func gallery(raw any, industry string) *Gallery {
	g := &Gallery{
		ComputedLayout: EnumOr(dig(raw, "computed_layout"), GalleryLayouts, "grid"),
	}
	if q := StringOr(dig(raw, "image_source", "image_search_query"), ""); q != "" {
		g.ImageSource = &ImageSource{ImageSearchQuery: SanitizeSearchQuery(q)}
	}

	seen := map[string]bool{}
	usedQuery := map[string]bool{}
	for _, v := range itemsOf(raw, "items") {
		item, ok := galleryItem(v, industry)
		if !ok {
			continue
		}
		key := strings.ToLower(item.ImageSearchQuery) + "\x00" + strings.ToLower(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		usedQuery[strings.ToLower(item.ImageSearchQuery)] = true
		g.Items = append(g.Items, item)
		if len(g.Items) == maxGalleryItems {
			break
		}
	}

	// The subject must survive the word clip or every fallback would search
	// the same thing.
	topic := leadingWords(industry, fallbackTopicWords)
	for _, fb := range galleryFallbacks {
		if len(g.Items) >= minGalleryItems {
			break
		}
		q := SanitizeSearchQuery(topic + " " + fb.subject)
		if usedQuery[strings.ToLower(q)] {
			continue
		}
		usedQuery[strings.ToLower(q)] = true
		g.Items = append(g.Items, GalleryItem{Title: fb.title, ImageSearchQuery: q})
	}

	for i := range g.Items {
		if g.Items[i].Title == "" {
			g.Items[i].Title = fmt.Sprintf("Project %d", i+1)
		}
	}
	g.ComputedCount = len(g.Items)
	return g
}

func galleryItem(v any, industry string) (GalleryItem, bool) {
	var item GalleryItem
	switch it := v.(type) {
	case string:
		item.ImageSearchQuery = strings.TrimSpace(it)
	case map[string]any:
		item.Title = firstString(it, "title", "name")
		item.Description = firstString(it, "description", "caption")
		item.ImageSearchQuery = firstString(it, "image_search_query", "query", "alt")
	}
	if item.ImageSearchQuery == "" {
		if item.Title == "" {
			return item, false
		}
		item.ImageSearchQuery = item.Title + " " + industry
	}
	item.ImageSearchQuery = SanitizeSearchQuery(item.ImageSearchQuery)
	return item, true
}

// leadingWords returns the first n words of s with punctuation removed.
func leadingWords(s string, n int) string {
	words := strings.Fields(queryPunct.ReplaceAllString(stripApostrophes(s), " "))
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
