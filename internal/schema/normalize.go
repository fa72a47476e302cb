package schema

import (
	"net/url"
	"slices"
	"strings"
)

// YearsExperienceUnknown is rendered when the experience claim is missing or
// could not be traced back to the caller.
const YearsExperienceUnknown = "Experience details on request"

const (
	maxFeatures = 8
	minFeatures = 3
)

var defaultFeatures = []Feature{
	{Title: "Easy scheduling", Description: "Fast replies and simple booking.", IconSlug: "clock"},
	{Title: "Quality-first work", Description: "Careful, consistent results you can trust.", IconSlug: "check"},
	{Title: "Friendly support", Description: "Clear communication from start to finish.", IconSlug: "phone"},
}

// normalizer carries the context shared by every field rule. trusted marks
// input that was already accepted once (stored or merged documents): its
// strategy flags count as opt-ins and its numeric claims are kept.
type normalizer struct {
	facts   Facts
	trusted bool
}

// NormalizePlan coerces the planning pass output into a Plan. It never fails;
// callers verify the result with Must.
func NormalizePlan(raw map[string]any, facts Facts) *Plan {
	n := normalizer{facts: facts}
	strategy := n.strategy(raw["strategy"])
	return &Plan{
		Intelligence: n.intelligence(asMap(raw["intelligence"])),
		Strategy:     strategy,
		Settings:     n.settings(asMap(raw["settings"]), strategy, facts.Phone != ""),
	}
}

// NormalizeDocument coerces a content pass draft into a Document. Facts take
// precedence over the draft for the fields they cover, and speculative
// sections survive only with the matching Allow* opt-in.
func NormalizeDocument(raw map[string]any, facts Facts) *Document {
	return normalizer{facts: facts}.document(raw)
}

// NormalizeStored re-applies the document invariants to a document that was
// already accepted, such as the output of a merge. Its own strategy flags act
// as the opt-ins for speculative sections.
func NormalizeStored(raw map[string]any, facts Facts) *Document {
	return normalizer{facts: facts, trusted: true}.document(raw)
}

func (n normalizer) document(raw map[string]any) *Document {
	intel := n.intelligence(asMap(raw["intelligence"]))
	doc := &Document{
		Intelligence: intel,
		Strategy:     n.strategy(raw["strategy"]),
		Brand:        n.brand(asMap(raw["brand"]), intel),
		Hero:         n.hero(asMap(raw["hero"]), intel),
		About:        n.about(asMap(raw["about"])),
		Features:     n.features(raw["features"]),
	}

	n.sections(doc, raw)

	doc.Settings = n.settings(asMap(raw["settings"]), doc.Strategy, doc.Brand.Phone != "")
	if doc.ServiceArea != nil {
		doc.ServiceArea.CTAText = StringOr(doc.ServiceArea.CTAText, doc.Settings.CTAText)
		doc.ServiceArea.CTALink = menuAnchorOr(doc.Settings.Menu, doc.ServiceArea.CTALink, doc.Settings.CTALink)
	}
	doc.Contact = n.contact(asMap(raw["contact"]), doc.Brand, doc.Settings)

	// The only place a slug is computed. The placeholder brand name never
	// becomes a slug; the client id is preferred over it.
	doc.Brand.Slug = deriveSlug(
		StringOr(dig(raw, "brand", "slug"), ""),
		StringOr(n.facts.BusinessName, StringOr(dig(raw, "brand", "name"), "")),
		n.facts.ClientID,
	)
	return doc
}

func (n normalizer) intelligence(raw map[string]any) Intelligence {
	return Intelligence{
		Industry:      StringOr(raw["industry"], StringOr(n.facts.SiteFor, "local services")),
		TargetPersona: StringOr(raw["target_persona"], "Local customers who want a reliable, high-quality service"),
		ToneOfVoice:   StringOr(n.facts.ToneHint, StringOr(raw["tone_of_voice"], "Professional, friendly, and clear")),
	}
}

// strategy walks the full flag list so omitted flags are defaulted, never
// left absent.
func (n normalizer) strategy(raw any) Strategy {
	m := asMap(raw)
	s := make(Strategy, len(StrategyFlags))
	for _, flag := range StrategyFlags {
		s[flag] = BoolOr(m[flag], strategyDefaults[flag])
	}
	if !n.trusted {
		for _, flag := range speculativeFlags {
			if !n.facts.allows(flag) {
				s[flag] = false
			}
		}
	}
	return s
}

func (n normalizer) settings(raw map[string]any, strategy Strategy, hasPhone bool) Settings {
	s := Settings{
		Vibe: EnumOr(raw["vibe"], Vibes, DefaultVibe),
		Menu: buildMenu(strategy, raw["menu"]),
	}

	if n.facts.Goal != "" {
		s.CTAText = ctaForGoal(n.facts.Goal, hasPhone)
	} else {
		s.CTAText = StringOr(raw["cta_text"], ctaForGoal("", hasPhone))
	}

	s.CTAType = EnumOr(raw["cta_type"], CTATypes, CTAAnchor)
	link := StringOr(raw["cta_link"], "")
	if s.CTAType == CTAExternal && isExternalURL(link) {
		s.CTALink = link
	} else {
		s.CTAType = CTAAnchor
		s.CTALink = menuAnchorOr(s.Menu, link, AnchorContact)
	}

	s.SecondaryCTAText = StringOr(raw["secondary_cta_text"], "Learn More")
	s.SecondaryCTALink = menuAnchorOr(s.Menu, StringOr(raw["secondary_cta_link"], ""), secondaryAnchor(s.Menu))
	return s
}

// buildMenu derives the menu from the enabled sections so it never links to
// a missing section. Labels the model chose for those anchors are kept.
func buildMenu(strategy Strategy, raw any) []MenuItem {
	labels := map[string]string{}
	for _, it := range MenuFromAny(raw) {
		if _, ok := labels[it.Path]; !ok {
			labels[it.Path] = it.Label
		}
	}

	var items []MenuItem
	for _, anchor := range Anchors {
		if flag, gated := anchorFlags[anchor]; gated && !strategy.Enabled(flag) {
			continue
		}
		label := labels[anchor]
		if label == "" {
			label = AnchorLabels[anchor]
		}
		items = append(items, MenuItem{Label: label, Path: anchor})
	}
	items = EnsureHomeAndContact(items)
	sortMenu(items)
	return items
}

func menuAnchorOr(menu []MenuItem, link, fallback string) string {
	if anchor, ok := canonicalAnchor(link); ok {
		if slices.ContainsFunc(menu, func(it MenuItem) bool { return it.Path == anchor }) {
			return anchor
		}
	}
	return fallback
}

func secondaryAnchor(menu []MenuItem) string {
	for _, candidate := range []string{AnchorAbout, AnchorFeatures} {
		if menuAnchorOr(menu, candidate, "") != "" {
			return candidate
		}
	}
	return AnchorContact
}

func isExternalURL(link string) bool {
	u, err := url.Parse(link)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (n normalizer) brand(raw map[string]any, intel Intelligence) Brand {
	tagline := "Trusted " + intel.Industry
	if city := StringOr(n.facts.MainCity, ""); city != "" {
		tagline += " in " + city
	}
	return Brand{
		Name:            StringOr(n.facts.BusinessName, StringOr(raw["name"], "Your Business")),
		Tagline:         StringOr(raw["tagline"], tagline),
		Email:           StringOr(n.facts.Email, StringOr(raw["email"], "")),
		Phone:           StringOr(n.facts.Phone, StringOr(raw["phone"], "")),
		OfficeAddress:   StringOr(raw["office_address"], ""),
		ObjectionHandle: StringOr(raw["objection_handle"], ""),
	}
}

func (n normalizer) hero(raw map[string]any, intel Intelligence) Hero {
	var alt, query string
	switch img := raw["image"].(type) {
	case map[string]any:
		alt = StringOr(img["alt"], "")
		query = StringOr(img["image_search_query"], StringOr(img["query"], ""))
	case string:
		query = strings.TrimSpace(img)
	}
	if query == "" {
		query = intel.Industry + " professional at work"
	}
	return Hero{
		Headline: StringOr(raw["headline"], "Premium service, made easy"),
		Subtext: StringOr(raw["subtext"], StringOr(raw["subheadline"],
			"Fast, simple, and professional from first contact to completion.")),
		Image: HeroImage{
			Alt:              StringOr(alt, "Service professional at work"),
			ImageSearchQuery: SanitizeSearchQuery(query),
		},
	}
}

func (n normalizer) about(raw map[string]any) About {
	years := textOf(raw["years_experience"])
	if years == "" || (!n.trusted && hasDigit(years)) {
		years = YearsExperienceUnknown
	}
	return About{
		StoryText: StringOr(raw["story_text"], StringOr(raw["content"],
			"We’re built around quality work, clear communication, and a great customer experience.")),
		FounderNote:     StringOr(raw["founder_note"], "Owner-led, detail-focused, and committed to doing it right."),
		YearsExperience: years,
	}
}

func (n normalizer) features(raw any) []Feature {
	out := make([]Feature, 0, maxFeatures)
	for _, v := range asSlice(raw) {
		var title, desc, icon string
		switch it := v.(type) {
		case string:
			title = strings.TrimSpace(it)
		case map[string]any:
			title = firstString(it, "title", "name")
			desc = firstString(it, "description", "text", "body")
			icon = firstString(it, "icon_slug", "icon")
		}
		if title == "" && desc == "" {
			continue
		}
		if icon == "" {
			icon = title
		}
		out = append(out, Feature{
			Title:       StringOr(title, "Key benefit"),
			Description: desc,
			IconSlug:    IconSlugOf(icon),
		})
		if len(out) == maxFeatures {
			break
		}
	}

	for _, def := range defaultFeatures {
		if len(out) >= minFeatures {
			break
		}
		if slices.ContainsFunc(out, func(f Feature) bool { return strings.EqualFold(f.Title, def.Title) }) {
			continue
		}
		out = append(out, def)
	}
	return out
}

func (n normalizer) contact(raw map[string]any, brand Brand, settings Settings) Contact {
	return Contact{
		Headline:       StringOr(raw["headline"], "Get in touch"),
		Subheadline:    StringOr(raw["subheadline"], "Tell us what you need and we’ll respond shortly."),
		EmailRecipient: StringOr(n.facts.Email, StringOr(raw["email_recipient"], brand.Email)),
		ButtonText:     StringOr(raw["button_text"], settings.CTAText),
		Email:          StringOr(n.facts.Email, StringOr(raw["email"], brand.Email)),
		Phone:          StringOr(n.facts.Phone, StringOr(raw["phone"], brand.Phone)),
		OfficeAddress:  StringOr(raw["office_address"], brand.OfficeAddress),
	}
}
