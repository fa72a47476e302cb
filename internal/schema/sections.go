package schema

import (
	"slices"
	"strings"
)

const (
	minTrustItems   = 3
	maxTrustItems   = 6
	minProcessSteps = 3
	maxProcessSteps = 6
	minFAQs         = 3
	maxFAQs         = 10
	maxTestimonials = 6
	maxPricingTiers = 4
	maxCompareRows  = 8
	minEvents       = 3
	maxEvents       = 12
)

// Generic filler for structural sections. None of it asserts a fact about the
// business.
var (
	defaultTrustItems = []TrustItem{
		{Label: "Clear communication", IconSlug: "users"},
		{Label: "Quality-first work", IconSlug: "check"},
		{Label: "Fast replies", IconSlug: "clock"},
	}
	defaultProcessSteps = []ProcessStep{
		{Title: "Reach out", Description: "Tell us what you need using the contact form or by phone."},
		{Title: "Get a plan", Description: "We review the details and confirm scope, timing and next steps with you."},
		{Title: "We get to work", Description: "The job gets done with clear updates along the way."},
	}
	defaultFAQs = []FAQ{
		{Question: "How do I get started?", Answer: "Send us a message through the contact form and we’ll reply with next steps."},
		{Question: "Which areas do you serve?", Answer: "Get in touch with your location and we’ll confirm availability."},
		{Question: "How is pricing handled?", Answer: "Every job is different, so we provide a quote once we understand what you need."},
	}
)

const defaultTravelNote = "Outside these areas? We offer custom quotes for extended travel."

// sections reconciles every conditional section with its flag: disabled
// sections are dropped even when the draft carried content, structural
// sections that are enabled get generic filler, and speculative sections that
// end up empty switch their flag off.
func (n normalizer) sections(doc *Document, raw map[string]any) {
	s := doc.Strategy

	if s[ShowTrustbar] {
		doc.Trustbar = trustbar(raw["trustbar"])
	}
	if s[ShowProcess] {
		doc.ProcessSteps = processSteps(firstPresent(raw, "processSteps", "process_steps", "process"))
	}
	if s[ShowFAQs] {
		doc.FAQs = faqs(raw["faqs"])
	}
	if s[ShowGallery] {
		doc.Gallery = gallery(raw["gallery"], doc.Intelligence.Industry)
	}
	if s[ShowServiceArea] {
		doc.ServiceArea = n.serviceArea(asMap(raw["service_area"]))
	}

	if s[ShowTestimonials] {
		doc.Testimonials = testimonials(raw["testimonials"])
		s[ShowTestimonials] = len(doc.Testimonials) > 0
	}
	if s[ShowInvestment] {
		doc.Investment = investment(raw["investment"])
		s[ShowInvestment] = len(doc.Investment) > 0
	}
	if s[ShowComparison] {
		doc.Comparison = comparison(raw["comparison"])
		s[ShowComparison] = doc.Comparison != nil
	}
	if s[ShowEvents] {
		doc.Events = events(raw["events"])
		s[ShowEvents] = len(doc.Events) >= minEvents
		if !s[ShowEvents] {
			doc.Events = nil
		}
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// itemsOf returns raw when it is an array, else the first array found under
// one of keys.
func itemsOf(raw any, keys ...string) []any {
	if arr := asSlice(raw); arr != nil {
		return arr
	}
	m := asMap(raw)
	for _, k := range keys {
		if arr := asSlice(m[k]); arr != nil {
			return arr
		}
	}
	return nil
}

func trustbar(raw any) *Trustbar {
	var items []TrustItem
	for _, v := range itemsOf(raw, "items") {
		var label, icon string
		switch it := v.(type) {
		case string:
			label = strings.TrimSpace(it)
		case map[string]any:
			label = firstString(it, "label", "title", "text")
			icon = firstString(it, "icon_slug", "icon")
		}
		if label == "" || slices.ContainsFunc(items, func(t TrustItem) bool { return strings.EqualFold(t.Label, label) }) {
			continue
		}
		if icon == "" {
			icon = label
		}
		items = append(items, TrustItem{Label: label, IconSlug: IconSlugOf(icon)})
		if len(items) == maxTrustItems {
			break
		}
	}
	for _, def := range defaultTrustItems {
		if len(items) >= minTrustItems {
			break
		}
		if !slices.ContainsFunc(items, func(t TrustItem) bool { return strings.EqualFold(t.Label, def.Label) }) {
			items = append(items, def)
		}
	}
	return &Trustbar{Items: items}
}

func processSteps(raw any) []ProcessStep {
	var steps []ProcessStep
	for _, v := range itemsOf(raw, "steps", "items") {
		it := asMap(v)
		title := firstString(it, "title", "name", "step")
		desc := firstString(it, "description", "text", "body")
		if title == "" || desc == "" {
			continue
		}
		steps = append(steps, ProcessStep{Title: title, Description: desc})
		if len(steps) == maxProcessSteps {
			break
		}
	}
	for _, def := range defaultProcessSteps {
		if len(steps) >= minProcessSteps {
			break
		}
		if !slices.ContainsFunc(steps, func(p ProcessStep) bool { return strings.EqualFold(p.Title, def.Title) }) {
			steps = append(steps, def)
		}
	}
	return steps
}

func faqs(raw any) []FAQ {
	var out []FAQ
	for _, v := range itemsOf(raw, "items", "questions") {
		it := asMap(v)
		q := firstString(it, "question", "q")
		a := firstString(it, "answer", "a")
		if q == "" || a == "" {
			continue
		}
		out = append(out, FAQ{Question: q, Answer: a})
		if len(out) == maxFAQs {
			break
		}
	}
	for _, def := range defaultFAQs {
		if len(out) >= minFAQs {
			break
		}
		if !slices.ContainsFunc(out, func(f FAQ) bool { return strings.EqualFold(f.Question, def.Question) }) {
			out = append(out, def)
		}
	}
	return out
}

func (n normalizer) serviceArea(raw map[string]any) *ServiceArea {
	city := StringOr(n.facts.MainCity, StringOr(raw["main_city"], "Our Region"))
	cities := []string{}
	for _, c := range stringList(raw["surrounding_cities"]) {
		if !strings.EqualFold(c, city) {
			cities = append(cities, c)
		}
	}
	return &ServiceArea{
		MainCity:          city,
		SurroundingCities: cities,
		TravelNote:        StringOr(raw["travel_note"], defaultTravelNote),
		CTAText:           StringOr(raw["cta_text"], ""),
		CTALink:           StringOr(raw["cta_link"], ""),
	}
}

func testimonials(raw any) []Testimonial {
	var out []Testimonial
	for _, v := range itemsOf(raw, "items", "reviews") {
		it := asMap(v)
		quote := firstString(it, "quote", "text", "content", "review")
		author := firstString(it, "author", "name")
		if quote == "" || author == "" {
			continue
		}
		out = append(out, Testimonial{Quote: quote, Author: author, Role: firstString(it, "role", "location")})
		if len(out) == maxTestimonials {
			break
		}
	}
	return out
}

func investment(raw any) []PricingTier {
	var out []PricingTier
	for _, v := range itemsOf(raw, "tiers", "plans", "items") {
		it := asMap(v)
		name := firstString(it, "name", "title", "tier")
		if name == "" {
			continue
		}
		out = append(out, PricingTier{
			Name:        name,
			Price:       textOf(it["price"]),
			Description: firstString(it, "description", "text"),
			Features:    stringList(it["features"]),
		})
		if len(out) == maxPricingTiers {
			break
		}
	}
	return out
}

func comparison(raw any) *Comparison {
	var rows []ComparisonRow
	for _, v := range itemsOf(raw, "rows", "items") {
		it := asMap(v)
		label := firstString(it, "label", "feature", "title")
		us := cellText(firstPresent(it, "us", "ours", "we"))
		them := cellText(firstPresent(it, "them", "others", "competitors"))
		if label == "" || (us == "" && them == "") {
			continue
		}
		rows = append(rows, ComparisonRow{Label: label, Us: us, Them: them})
		if len(rows) == maxCompareRows {
			break
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return &Comparison{
		Headline: StringOr(dig(raw, "headline"), "How we compare"),
		Rows:     rows,
	}
}

func cellText(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return textOf(v)
}

func events(raw any) []Event {
	var out []Event
	for _, v := range itemsOf(raw, "items", "events") {
		it := asMap(v)
		title := firstString(it, "title", "name")
		if title == "" {
			continue
		}
		out = append(out, Event{
			Title:       title,
			Date:        firstString(it, "date", "when"),
			Description: firstString(it, "description", "text"),
			Location:    firstString(it, "location", "where"),
		})
		if len(out) == maxEvents {
			break
		}
	}
	return out
}
