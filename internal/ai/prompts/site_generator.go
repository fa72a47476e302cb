package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"siteforge/internal/schema"
)

// planTemplate is the "Architect" pass. It decides audience, sections and
// styling; content comes later.
const planTemplate = `
You are SiteForge "Architect".
Return JSON ONLY with keys: intelligence, strategy, settings.

Rules:
- intelligence: industry, target_persona, tone_of_voice.
- strategy: the boolean flags %s.
- settings.vibe must be one of:
  %s
- settings.menu must be a list of anchor paths from:
  %s
- Always include #home and #contact.
- settings.cta_type is "anchor" unless the user gave a booking URL.
- show_events only if you can populate 3+ events items later; otherwise false.
- Leave show_testimonials, show_investment and show_comparison false unless the user supplied reviews, prices or a competitor to compare with.

User input:
site_for: %s
business_name: %s
goal: %s
tone_hint: %s
main_city: %s
`

// contentTemplate is the "Builder" pass. The draft it produces is not trusted
// to match the schema; the normalizer fixes it up.
const contentTemplate = `
You are SiteForge "Builder".
Return ONE JSON object that includes these keys:
intelligence, strategy, settings, brand, hero, about, features, contact

Hard rules:
- Do NOT invent awards/certs/years/pricing/reviews unless the user provided them.
- features: 3-8 items with title, description, icon_slug.
  icon_slug must be one of:
  %s
- hero.image: alt + image_search_query (4-8 words: subject action context).
- contact must include headline, subheadline, email_recipient, button_text.
- For every strategy flag that is true, include the matching section:
  trustbar{items[{label,icon_slug}]}, processSteps[{title,description}], faqs[{question,answer}],
  gallery{computed_layout,items[{title,description,image_search_query}]}, service_area{main_city,surrounding_cities},
  testimonials[{quote,author}], investment[{name,price,features}], comparison{headline,rows[{label,us,them}]},
  events[{title,date,description,location}] (3+ items).
- gallery.computed_layout is one of %s.

Plan (must follow):
%s

Authoritative facts from user:
business_name: %s
email: %s
phone: %s
main_city: %s
goal: %s
site_for: %s

JSON ONLY. No markdown.
`

// PlanPrompt renders the planning pass prompt for facts.
func PlanPrompt(facts schema.Facts) string {
	return strings.TrimSpace(fmt.Sprintf(planTemplate,
		strings.Join(schema.StrategyFlags, ", "),
		quoteList(schema.Vibes),
		strings.Join(schema.Anchors, ","),
		quote(facts.SiteFor),
		quote(facts.BusinessName),
		quote(goalOrDefault(facts.Goal)),
		quote(facts.ToneHint),
		quote(facts.MainCity),
	))
}

// ContentPrompt renders the content pass prompt. plan is the normalized plan
// the model has to follow.
func ContentPrompt(facts schema.Facts, plan map[string]any) (string, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	return strings.TrimSpace(fmt.Sprintf(contentTemplate,
		strings.Join(schema.IconSlugs, ","),
		quoteList(schema.GalleryLayouts),
		planJSON,
		quote(facts.BusinessName),
		quote(facts.Email),
		quote(facts.Phone),
		quote(facts.MainCity),
		quote(goalOrDefault(facts.Goal)),
		quote(facts.SiteFor),
	)), nil
}

func goalOrDefault(goal string) string {
	if goal == "" {
		return schema.GoalContact
	}
	return goal
}

// quote renders s as a JSON string literal so user text cannot break out of
// its line.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ",")
}
