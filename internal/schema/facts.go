package schema

import "strings"

// Facts are the caller-supplied values that win over anything the model
// invents for the same fields. The Allow* flags are the only way a
// speculative section (testimonials, pricing, comparison, events) can survive
// normalization of model output.
type Facts struct {
	SiteFor      string `json:"site_for"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	MainCity     string `json:"main_city"`
	Goal         string `json:"goal"`
	ToneHint     string `json:"tone_hint"`
	// ClientID is the caller's identifier, used as the slug of last resort.
	ClientID string `json:"client_id"`

	AllowTestimonials bool `json:"allow_testimonials"`
	AllowInvestment   bool `json:"allow_investment"`
	AllowComparison   bool `json:"allow_comparison"`
	AllowEvents       bool `json:"allow_events"`
}

func (f Facts) allows(flag string) bool {
	switch flag {
	case ShowTestimonials:
		return f.AllowTestimonials
	case ShowInvestment:
		return f.AllowInvestment
	case ShowComparison:
		return f.AllowComparison
	case ShowEvents:
		return f.AllowEvents
	}
	return true
}

// Goals accepted on intake.
const (
	GoalContact = "Contact"
	GoalCall    = "Call"
	GoalQuote   = "Quote"
	GoalBook    = "Book"
)

// ctaForGoal derives the primary button copy. A call CTA without a phone
// number would be a dead end, so it degrades to the contact CTA.
func ctaForGoal(goal string, hasPhone bool) string {
	switch strings.ToLower(strings.TrimSpace(goal)) {
	case "call":
		if hasPhone {
			return "Call Now"
		}
	case "quote":
		return "Request a Quote"
	case "book":
		return "Book Now"
	}
	return "Contact Us"
}
