package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conditionalFlags = []string{
	ShowTrustbar, ShowEvents, ShowProcess, ShowTestimonials, ShowComparison,
	ShowGallery, ShowInvestment, ShowFAQs, ShowServiceArea,
}

func allowAll() Facts {
	return Facts{AllowTestimonials: true, AllowInvestment: true, AllowComparison: true, AllowEvents: true}
}

// richDraft returns a content-pass draft with data for every section.
func richDraft() map[string]any {
	return map[string]any{
		"intelligence": map[string]any{"industry": "mobile car detailing", "target_persona": "Busy commuters", "tone_of_voice": "Upbeat"},
		"strategy":     map[string]any{},
		"settings":     map[string]any{"vibe": "Solar Flare", "cta_text": "Book a Detail"},
		"brand":        map[string]any{"name": "Shine On Wheels", "tagline": "Detailing that comes to you", "email": "hi@shine.example"},
		"hero": map[string]any{
			"headline": "Showroom shine in your driveway",
			"subtext":  "We bring the detail bay to you.",
			"image":    map[string]any{"alt": "Detailer polishing a car", "image_search_query": "detailer polishing car hood, Austin TX"},
		},
		"about":    map[string]any{"story_text": "Started with one van and a bucket.", "founder_note": "I love clean cars.", "years_experience": "10+ years"},
		"features": []any{map[string]any{"title": "Mobile service", "description": "We come to you.", "icon_slug": "mobile"}},
		"contact":  map[string]any{"headline": "Book now"},
		"trustbar": map[string]any{"items": []any{"Eco-friendly products"}},
		"processSteps": []any{
			map[string]any{"title": "Book", "description": "Pick a time."},
		},
		"faqs": []any{map[string]any{"question": "Do you need water?", "answer": "No, we bring our own."}},
		"gallery": map[string]any{"items": []any{
			map[string]any{"title": "Interior", "image_search_query": "clean car interior seats"},
		}},
		"service_area": map[string]any{"main_city": "Austin", "surrounding_cities": []any{"Round Rock", "Austin", "Cedar Park"}},
		"testimonials": []any{map[string]any{"quote": "Spotless!", "author": "Dana"}},
		"investment":   []any{map[string]any{"name": "Basic", "price": 99.0, "features": []any{"Wash", "Vacuum"}}},
		"comparison":   map[string]any{"rows": []any{map[string]any{"label": "Comes to you", "us": true, "them": false}}},
		"events": []any{
			map[string]any{"title": "Spring pop-up"},
			map[string]any{"title": "Summer pop-up"},
			map[string]any{"title": "Fall pop-up"},
		},
	}
}

func withStrategy(draft map[string]any, flags map[string]bool) map[string]any {
	strategy := map[string]any{}
	for k, v := range flags {
		strategy[k] = v
	}
	draft["strategy"] = strategy
	return draft
}

func assertMenuInvariant(t *testing.T, menu []MenuItem) {
	t.Helper()
	require.NotEmpty(t, menu)
	assert.Equal(t, AnchorHome, menu[0].Path, "home must be first")
	assert.Equal(t, AnchorContact, menu[len(menu)-1].Path, "contact must be last")
	seen := map[string]bool{}
	last := -1
	for _, it := range menu {
		assert.False(t, seen[it.Path], "duplicate path %s", it.Path)
		seen[it.Path] = true
		assert.Contains(t, Anchors, it.Path)
		assert.NotEmpty(t, it.Label)
		idx := indexOf(Anchors, it.Path)
		assert.Greater(t, idx, last, "menu must follow page order")
		last = idx
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func assertStrategyExhaustive(t *testing.T, s Strategy) {
	t.Helper()
	assert.Len(t, s, len(StrategyFlags))
	for _, flag := range StrategyFlags {
		_, ok := s[flag]
		assert.True(t, ok, "flag %s missing", flag)
	}
}

func TestNormalizePlanFromEmptyInput(t *testing.T) {
	plan := NormalizePlan(map[string]any{}, Facts{})

	assert.Equal(t, "local services", plan.Intelligence.Industry)
	assert.NotEmpty(t, plan.Intelligence.TargetPersona)
	assert.NotEmpty(t, plan.Intelligence.ToneOfVoice)
	assert.Equal(t, DefaultVibe, plan.Settings.Vibe)
	assert.Equal(t, "Contact Us", plan.Settings.CTAText)
	assert.Equal(t, AnchorContact, plan.Settings.CTALink)
	assert.Equal(t, CTAAnchor, plan.Settings.CTAType)
	assertStrategyExhaustive(t, plan.Strategy)
	assert.True(t, plan.Strategy[ShowAbout])
	assert.True(t, plan.Strategy[ShowFeatures])
	assert.False(t, plan.Strategy[ShowTestimonials])
	assertMenuInvariant(t, plan.Settings.Menu)

	m, err := plan.Map()
	require.NoError(t, err)
	require.NoError(t, Must(m, PlanKeys...))
}

func TestNormalizePlanStrategyIsStrict(t *testing.T) {
	plan := NormalizePlan(map[string]any{
		"strategy": map[string]any{
			"show_gallery": "true",
			"show_faqs":    1.0,
			"show_process": true,
			"show_about":   "false",
			"show_bogus":   true,
		},
	}, Facts{})

	assertStrategyExhaustive(t, plan.Strategy)
	assert.False(t, plan.Strategy[ShowGallery])
	assert.False(t, plan.Strategy[ShowFAQs])
	assert.True(t, plan.Strategy[ShowProcess])
	assert.True(t, plan.Strategy[ShowAbout], "non-bool falls back to the default")
	_, ok := plan.Strategy["show_bogus"]
	assert.False(t, ok)
}

func TestNormalizePlanMenuFollowsFlags(t *testing.T) {
	plan := NormalizePlan(map[string]any{
		"strategy": map[string]any{"show_faqs": true, "show_features": false},
		"settings": map[string]any{
			"vibe": "Luxury Noir",
			"menu": []any{"#contact", "#gallery", map[string]any{"label": "Questions", "path": "#faqs"}, "#home"},
		},
	}, Facts{Goal: GoalQuote})

	assert.Equal(t, "Luxury Noir", plan.Settings.Vibe)
	assert.Equal(t, "Request a Quote", plan.Settings.CTAText)
	assert.Equal(t, []MenuItem{
		{Label: "Home", Path: "#home"},
		{Label: "About", Path: "#about"},
		{Label: "Questions", Path: "#faqs"},
		{Label: "Contact", Path: "#contact"},
	}, plan.Settings.Menu)
	assert.Equal(t, AnchorAbout, plan.Settings.SecondaryCTALink)
}

func TestNormalizePlanGatesSpeculativeFlags(t *testing.T) {
	raw := map[string]any{"strategy": map[string]any{
		"show_testimonials": true, "show_investment": true, "show_comparison": true, "show_events": true,
	}}

	plan := NormalizePlan(raw, Facts{})
	for _, flag := range speculativeFlags {
		assert.False(t, plan.Strategy[flag], flag)
	}

	plan = NormalizePlan(raw, allowAll())
	for _, flag := range speculativeFlags {
		assert.True(t, plan.Strategy[flag], flag)
	}
}

func TestNormalizeDocumentSectionPresenceMatchesFlags(t *testing.T) {
	for mask := 0; mask < 1<<len(conditionalFlags); mask++ {
		flags := map[string]bool{}
		for i, flag := range conditionalFlags {
			flags[flag] = mask&(1<<i) != 0
		}
		doc := NormalizeDocument(withStrategy(richDraft(), flags), allowAll())
		m, err := doc.Map()
		require.NoError(t, err)
		require.NoError(t, Must(m, DocumentKeys...))

		for _, flag := range conditionalFlags {
			key := SectionKeys[flag]
			section, present := m[key]
			require.Equal(t, flags[flag], doc.Strategy[flag], "mask %b flag %s", mask, flag)
			require.Equal(t, doc.Strategy[flag], present, "mask %b section %s", mask, key)
			if present {
				require.NotEmpty(t, section, "mask %b section %s", mask, key)
			}
		}
		assertStrategyExhaustive(t, doc.Strategy)
		assertMenuInvariant(t, doc.Settings.Menu)
	}
}

func TestNormalizeDocumentSuppressesWithoutOptIn(t *testing.T) {
	draft := withStrategy(richDraft(), map[string]bool{ShowTestimonials: true, ShowInvestment: true})

	doc := NormalizeDocument(draft, Facts{AllowTestimonials: false})
	m, err := doc.Map()
	require.NoError(t, err)

	assert.False(t, doc.Strategy[ShowTestimonials])
	assert.False(t, doc.Strategy[ShowInvestment])
	assert.NotContains(t, m, "testimonials")
	assert.NotContains(t, m, "investment")
	for _, it := range doc.Settings.Menu {
		assert.NotEqual(t, AnchorTestimonials, it.Path)
	}
}

func TestNormalizeDocumentSpeculativeNeedsContent(t *testing.T) {
	draft := withStrategy(richDraft(), map[string]bool{ShowTestimonials: true, ShowEvents: true, ShowComparison: true})
	draft["testimonials"] = []any{map[string]any{"quote": "No author"}}
	draft["events"] = []any{map[string]any{"title": "Only one"}}
	delete(draft, "comparison")

	doc := NormalizeDocument(draft, allowAll())
	assert.False(t, doc.Strategy[ShowTestimonials])
	assert.False(t, doc.Strategy[ShowEvents])
	assert.False(t, doc.Strategy[ShowComparison])
	assert.Nil(t, doc.Testimonials)
	assert.Nil(t, doc.Events)
	assert.Nil(t, doc.Comparison)
}

func TestNormalizeDocumentSynthesizesStructuralSections(t *testing.T) {
	draft := map[string]any{"strategy": map[string]any{
		ShowTrustbar: true, ShowProcess: true, ShowFAQs: true, ShowGallery: true, ShowServiceArea: true,
	}}
	doc := NormalizeDocument(draft, Facts{SiteFor: "roof repair", MainCity: "Denver"})

	require.NotNil(t, doc.Trustbar)
	assert.Len(t, doc.Trustbar.Items, minTrustItems)
	assert.Len(t, doc.ProcessSteps, minProcessSteps)
	assert.Len(t, doc.FAQs, minFAQs)
	require.NotNil(t, doc.Gallery)
	assert.Len(t, doc.Gallery.Items, minGalleryItems)
	assert.Equal(t, minGalleryItems, doc.Gallery.ComputedCount)
	require.NotNil(t, doc.ServiceArea)
	assert.Equal(t, "Denver", doc.ServiceArea.MainCity)
	assert.Equal(t, doc.Settings.CTAText, doc.ServiceArea.CTAText)
	assert.Equal(t, AnchorContact, doc.ServiceArea.CTALink)
	assert.Equal(t, "Trusted roof repair in Denver", doc.Brand.Tagline)
}

func TestNormalizeDocumentTopsUpPartialSections(t *testing.T) {
	doc := NormalizeDocument(withStrategy(richDraft(), map[string]bool{ShowProcess: true, ShowFAQs: true, ShowTrustbar: true}), Facts{})

	require.Len(t, doc.ProcessSteps, minProcessSteps)
	assert.Equal(t, "Book", doc.ProcessSteps[0].Title)
	require.Len(t, doc.FAQs, minFAQs)
	assert.Equal(t, "Do you need water?", doc.FAQs[0].Question)
	require.Len(t, doc.Trustbar.Items, minTrustItems)
	assert.Equal(t, TrustItem{Label: "Eco-friendly products", IconSlug: "layers"}, doc.Trustbar.Items[0])
}

func TestNormalizeDocumentDropsDisabledContent(t *testing.T) {
	doc := NormalizeDocument(withStrategy(richDraft(), map[string]bool{}), allowAll())
	m, err := doc.Map()
	require.NoError(t, err)
	for _, flag := range conditionalFlags {
		assert.NotContains(t, m, SectionKeys[flag])
	}
}

func TestNormalizeDocumentGallery(t *testing.T) {
	items := []any{
		map[string]any{"title": "Interior", "image_search_query": "clean car interior"},
		map[string]any{"title": "INTERIOR", "image_search_query": "Clean car interior!"},
		map[string]any{"title": "Wheels", "image_search_query": "clean car interior"},
		"polished chrome wheel rim",
		map[string]any{"description": "no query and no title"},
	}
	draft := withStrategy(richDraft(), map[string]bool{ShowGallery: true})
	draft["gallery"] = map[string]any{"computed_layout": "masonry", "items": items}

	doc := NormalizeDocument(draft, Facts{})
	g := doc.Gallery
	require.NotNil(t, g)
	assert.Equal(t, "masonry", g.ComputedLayout)
	require.Len(t, g.Items, minGalleryItems)
	assert.Equal(t, "Interior", g.Items[0].Title)
	assert.Equal(t, "Wheels", g.Items[1].Title)
	assert.Equal(t, "Project 3", g.Items[2].Title)
	assert.Equal(t, "polished chrome wheel rim", g.Items[2].ImageSearchQuery)

	seen := map[string]bool{}
	for _, it := range g.Items {
		key := strings.ToLower(it.ImageSearchQuery + "|" + it.Title)
		assert.False(t, seen[key], "duplicate gallery item %s", key)
		seen[key] = true
		words := strings.Fields(it.ImageSearchQuery)
		assert.GreaterOrEqual(t, len(words), minQueryWords)
		assert.LessOrEqual(t, len(words), maxQueryWords)
	}

	var many []any
	for i := 0; i < 20; i++ {
		many = append(many, map[string]any{"title": fmt.Sprintf("Shot %d", i), "image_search_query": "car detailing photo shoot"})
	}
	draft["gallery"] = map[string]any{"items": many}
	doc = NormalizeDocument(draft, Facts{})
	assert.Len(t, doc.Gallery.Items, maxGalleryItems)
	assert.Equal(t, "grid", doc.Gallery.ComputedLayout)
}

func TestNormalizeDocumentGalleryLongIndustry(t *testing.T) {
	raw := map[string]any{
		"intelligence": map[string]any{"industry": "residential and commercial plumbing heating cooling repair services for homeowners"},
		"strategy":     map[string]any{"show_gallery": true},
	}
	doc := NormalizeDocument(raw, Facts{})
	require.NotNil(t, doc.Gallery)
	require.GreaterOrEqual(t, len(doc.Gallery.Items), minGalleryItems)
	assert.Equal(t, len(doc.Gallery.Items), doc.Gallery.ComputedCount)

	queries := map[string]bool{}
	for _, it := range doc.Gallery.Items {
		assert.True(t, strings.HasPrefix(it.ImageSearchQuery, "residential and commercial plumbing "), it.ImageSearchQuery)
		assert.LessOrEqual(t, len(strings.Fields(it.ImageSearchQuery)), maxQueryWords)
		queries[it.ImageSearchQuery] = true
	}
	assert.Len(t, queries, len(doc.Gallery.Items))

	doc = NormalizeDocument(map[string]any{"strategy": map[string]any{"show_gallery": true}},
		Facts{SiteFor: "Mobile dog grooming service for busy pet owners in Austin"})
	assert.GreaterOrEqual(t, len(doc.Gallery.Items), minGalleryItems)
}

func TestNormalizeDocumentFeatures(t *testing.T) {
	var raw []any
	for i := 0; i < 10; i++ {
		raw = append(raw, map[string]any{"title": fmt.Sprintf("F%d", i), "description": "d", "icon_slug": "calendar-check"})
	}
	raw = append([]any{map[string]any{"icon_slug": "star"}}, raw...)

	draft := richDraft()
	draft["features"] = raw
	doc := NormalizeDocument(draft, Facts{})
	require.Len(t, doc.Features, maxFeatures)
	assert.Equal(t, "F0", doc.Features[0].Title)
	for _, f := range doc.Features {
		assert.Equal(t, "clock", f.IconSlug)
	}

	draft["features"] = []any{map[string]any{"title": "Easy scheduling", "icon_slug": "banana"}}
	doc = NormalizeDocument(draft, Facts{})
	require.Len(t, doc.Features, minFeatures)
	assert.Equal(t, DefaultIcon, doc.Features[0].IconSlug)
	assert.Equal(t, "Quality-first work", doc.Features[1].Title)
}

func TestNormalizeDocumentFactsWin(t *testing.T) {
	facts := Facts{
		BusinessName: "O'Brien's Auto Detailing",
		Email:        "owner@obrien.example",
		Phone:        "555-0100",
		MainCity:     "Austin",
		ToneHint:     "Warm",
		Goal:         GoalCall,
	}
	draft := richDraft()
	delete(draft["brand"].(map[string]any), "slug")

	doc := NormalizeDocument(draft, facts)
	assert.Equal(t, "O'Brien's Auto Detailing", doc.Brand.Name)
	assert.Equal(t, "obriens-auto-detailing", doc.Brand.Slug)
	assert.Equal(t, "owner@obrien.example", doc.Brand.Email)
	assert.Equal(t, "owner@obrien.example", doc.Contact.EmailRecipient)
	assert.Equal(t, "555-0100", doc.Contact.Phone)
	assert.Equal(t, "Warm", doc.Intelligence.ToneOfVoice)
	assert.Equal(t, "Call Now", doc.Settings.CTAText)
	assert.Equal(t, "Call Now", doc.Contact.ButtonText)
}

func TestNormalizeDocumentCallGoalWithoutPhone(t *testing.T) {
	doc := NormalizeDocument(map[string]any{}, Facts{Goal: GoalCall})
	assert.Equal(t, "Contact Us", doc.Settings.CTAText)
	assert.Equal(t, AnchorContact, doc.Settings.CTALink)
}

func TestNormalizeDocumentSlugPrecedence(t *testing.T) {
	draft := richDraft()
	draft["brand"].(map[string]any)["slug"] = "Shine On!!"
	assert.Equal(t, "shine-on", NormalizeDocument(draft, Facts{}).Brand.Slug)

	draft["brand"] = map[string]any{"name": "???"}
	assert.Equal(t, "client-42", NormalizeDocument(draft, Facts{ClientID: "Client 42"}).Brand.Slug)
}

func TestNormalizeDocumentCTA(t *testing.T) {
	draft := richDraft()
	draft["settings"] = map[string]any{"cta_type": "external", "cta_link": "https://book.example.com/slot"}
	doc := NormalizeDocument(draft, Facts{})
	assert.Equal(t, CTAExternal, doc.Settings.CTAType)
	assert.Equal(t, "https://book.example.com/slot", doc.Settings.CTALink)

	draft["settings"] = map[string]any{"cta_type": "external", "cta_link": "book-now"}
	doc = NormalizeDocument(draft, Facts{})
	assert.Equal(t, CTAAnchor, doc.Settings.CTAType)
	assert.Equal(t, AnchorContact, doc.Settings.CTALink)

	draft["settings"] = map[string]any{"cta_link": "#gallery", "secondary_cta_link": "#gallery"}
	doc = NormalizeDocument(draft, Facts{})
	assert.Equal(t, AnchorContact, doc.Settings.CTALink, "gallery is disabled so the link would be dead")
	assert.Equal(t, AnchorAbout, doc.Settings.SecondaryCTALink)
}

func TestNormalizeDocumentHeroAndAbout(t *testing.T) {
	doc := NormalizeDocument(richDraft(), Facts{})
	assert.Equal(t, "detailer polishing car hood Austin", doc.Hero.Image.ImageSearchQuery)
	assert.Equal(t, YearsExperienceUnknown, doc.About.YearsExperience, "numeric claims from the model are not trusted")

	stored := NormalizeStored(richDraft(), Facts{})
	assert.Equal(t, "10+ years", stored.About.YearsExperience)

	draft := map[string]any{
		"hero":  map[string]any{"subheadline": "Legacy subtext", "image": "roofer on ladder"},
		"about": map[string]any{"content": "Legacy story", "years_experience": "Family run"},
	}
	doc = NormalizeDocument(draft, Facts{SiteFor: "roofing"})
	assert.Equal(t, "Legacy subtext", doc.Hero.Subtext)
	assert.Equal(t, "roofer on ladder professional", doc.Hero.Image.ImageSearchQuery)
	assert.Equal(t, "Legacy story", doc.About.StoryText)
	assert.Equal(t, "Family run", doc.About.YearsExperience)
}

func TestNormalizeDocumentServiceAreaDropsMainCityFromList(t *testing.T) {
	doc := NormalizeDocument(withStrategy(richDraft(), map[string]bool{ShowServiceArea: true}), Facts{})
	require.NotNil(t, doc.ServiceArea)
	assert.Equal(t, "Austin", doc.ServiceArea.MainCity)
	assert.Equal(t, []string{"Round Rock", "Cedar Park"}, doc.ServiceArea.SurroundingCities)
	assert.Equal(t, defaultTravelNote, doc.ServiceArea.TravelNote)
}

func TestNormalizeDocumentSpeculativeContentShapes(t *testing.T) {
	draft := withStrategy(richDraft(), map[string]bool{ShowInvestment: true, ShowComparison: true})
	doc := NormalizeDocument(draft, allowAll())

	require.Len(t, doc.Investment, 1)
	assert.Equal(t, PricingTier{Name: "Basic", Price: "99", Features: []string{"Wash", "Vacuum"}}, doc.Investment[0])
	require.NotNil(t, doc.Comparison)
	assert.Equal(t, "How we compare", doc.Comparison.Headline)
	assert.Equal(t, []ComparisonRow{{Label: "Comes to you", Us: "Yes", Them: "No"}}, doc.Comparison.Rows)
}

func TestNormalizeDocumentDoesNotMutateInput(t *testing.T) {
	draft := richDraft()
	snapshot := deepCopyMap(draft)
	NormalizeDocument(draft, allowAll())
	assert.Equal(t, snapshot, draft)
}
