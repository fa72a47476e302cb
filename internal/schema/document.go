// Package schema holds the business-document schema of the site factory and the
// rules that coerce loosely structured model output into it: field coercers,
// the plan and document normalizers, the legacy migrator and the layered merger.
//
// Every function in this package is pure. Inputs are treated as untrusted JSON
// (map[string]any as produced by encoding/json) and are never mutated.
package schema

import (
	"encoding/json"
	"fmt"
)

// Strategy holds the section visibility flags. A normalized Strategy has
// exactly the keys in StrategyFlags.
type Strategy map[string]bool

// Enabled reports whether the section behind flag is switched on.
func (s Strategy) Enabled(flag string) bool { return s[flag] }

type Intelligence struct {
	Industry      string `json:"industry"`
	TargetPersona string `json:"target_persona"`
	ToneOfVoice   string `json:"tone_of_voice"`
}

type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Settings struct {
	Vibe             string     `json:"vibe"`
	CTAText          string     `json:"cta_text"`
	CTALink          string     `json:"cta_link"`
	CTAType          string     `json:"cta_type"`
	SecondaryCTAText string     `json:"secondary_cta_text"`
	SecondaryCTALink string     `json:"secondary_cta_link"`
	Menu             []MenuItem `json:"menu"`
}

type Brand struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Tagline         string `json:"tagline"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	OfficeAddress   string `json:"office_address,omitempty"`
	ObjectionHandle string `json:"objection_handle,omitempty"`
}

type HeroImage struct {
	Alt              string `json:"alt"`
	ImageSearchQuery string `json:"image_search_query"`
}

type Hero struct {
	Headline string    `json:"headline"`
	Subtext  string    `json:"subtext"`
	Image    HeroImage `json:"image"`
}

type About struct {
	StoryText       string `json:"story_text"`
	FounderNote     string `json:"founder_note"`
	YearsExperience string `json:"years_experience"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconSlug    string `json:"icon_slug"`
}

type Contact struct {
	Headline       string `json:"headline"`
	Subheadline    string `json:"subheadline"`
	EmailRecipient string `json:"email_recipient"`
	ButtonText     string `json:"button_text"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	OfficeAddress  string `json:"office_address,omitempty"`
}

type GalleryItem struct {
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	ImageSearchQuery string `json:"image_search_query"`
}

type ImageSource struct {
	ImageSearchQuery string `json:"image_search_query"`
}

type Gallery struct {
	ComputedLayout string        `json:"computed_layout"`
	ComputedCount  int           `json:"computed_count"`
	ImageSource    *ImageSource  `json:"image_source,omitempty"`
	Items          []GalleryItem `json:"items"`
}

type ServiceArea struct {
	MainCity          string   `json:"main_city"`
	SurroundingCities []string `json:"surrounding_cities"`
	TravelNote        string   `json:"travel_note"`
	CTAText           string   `json:"cta_text"`
	CTALink           string   `json:"cta_link"`
}

type TrustItem struct {
	Label    string `json:"label"`
	IconSlug string `json:"icon_slug"`
}

type Trustbar struct {
	Items []TrustItem `json:"items"`
}

type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
}

type ComparisonRow struct {
	Label string `json:"label"`
	Us    string `json:"us"`
	Them  string `json:"them"`
}

type Comparison struct {
	Headline string          `json:"headline"`
	Rows     []ComparisonRow `json:"rows"`
}

type Event struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type PricingTier struct {
	Name        string   `json:"name"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Plan is the output of the planning pass: who the site is for, which sections
// it shows and how it is styled.
type Plan struct {
	Intelligence Intelligence `json:"intelligence"`
	Strategy     Strategy     `json:"strategy"`
	Settings     Settings     `json:"settings"`
}

// Document is the canonical business document consumed by the image fetcher
// and the static-site build. Conditional sections are nil exactly when their
// strategy flag is false.
type Document struct {
	Intelligence Intelligence `json:"intelligence"`
	Strategy     Strategy     `json:"strategy"`
	Settings     Settings     `json:"settings"`
	Brand        Brand        `json:"brand"`
	Hero         Hero         `json:"hero"`
	About        About        `json:"about"`
	Features     []Feature    `json:"features"`
	Contact      Contact      `json:"contact"`

	Trustbar     *Trustbar     `json:"trustbar,omitempty"`
	ProcessSteps []ProcessStep `json:"processSteps,omitempty"`
	Testimonials []Testimonial `json:"testimonials,omitempty"`
	Comparison   *Comparison   `json:"comparison,omitempty"`
	Gallery      *Gallery      `json:"gallery,omitempty"`
	Investment   []PricingTier `json:"investment,omitempty"`
	FAQs         []FAQ         `json:"faqs,omitempty"`
	ServiceArea  *ServiceArea  `json:"service_area,omitempty"`
	Events       []Event       `json:"events,omitempty"`
}

// Section keys of the conditional sections, indexed by their strategy flag.
var SectionKeys = map[string]string{
	ShowTrustbar:     "trustbar",
	ShowEvents:       "events",
	ShowProcess:      "processSteps",
	ShowTestimonials: "testimonials",
	ShowComparison:   "comparison",
	ShowGallery:      "gallery",
	ShowInvestment:   "investment",
	ShowFAQs:         "faqs",
	ShowServiceArea:  "service_area",
}

var (
	PlanKeys     = []string{"intelligence", "strategy", "settings"}
	DocumentKeys = []string{"intelligence", "strategy", "settings", "brand", "hero", "about", "features", "contact"}
)

// Map returns the plan as generic JSON.
func (p *Plan) Map() (map[string]any, error) { return toMap(p) }

// Map returns the document as generic JSON, the form the merger works on.
func (d *Document) Map() (map[string]any, error) { return toMap(d) }

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return m, nil
}
