package schema

// Vibes are the visual presets the site template knows how to render.
var Vibes = []string{
	"Midnight Tech",
	"Zenith Earth",
	"Vintage Boutique",
	"Rugged Industrial",
	"Modern Minimal",
	"Luxury Noir",
	"Legacy Professional",
	"Solar Flare",
}

const DefaultVibe = "Modern Minimal"

// CTA types. An external CTA points off-site and must carry an absolute URL.
const (
	CTAAnchor   = "anchor"
	CTAExternal = "external"
)

var CTATypes = []string{CTAAnchor, CTAExternal}

// Navigation anchors.
const (
	AnchorHome         = "#home"
	AnchorAbout        = "#about"
	AnchorFeatures     = "#features"
	AnchorEvents       = "#events"
	AnchorProcess      = "#process"
	AnchorTestimonials = "#testimonials"
	AnchorComparison   = "#comparison"
	AnchorGallery      = "#gallery"
	AnchorInvestment   = "#investment"
	AnchorFAQs         = "#faqs"
	AnchorServiceArea  = "#service-area"
	AnchorContact      = "#contact"
)

// Anchors is the closed set of menu paths in page order. Menus are always
// sorted by this order regardless of what the model emitted.
var Anchors = []string{
	AnchorHome,
	AnchorAbout,
	AnchorFeatures,
	AnchorEvents,
	AnchorProcess,
	AnchorTestimonials,
	AnchorComparison,
	AnchorGallery,
	AnchorInvestment,
	AnchorFAQs,
	AnchorServiceArea,
	AnchorContact,
}

// AnchorLabels supplies menu labels when the model gave only a path.
var AnchorLabels = map[string]string{
	AnchorHome:         "Home",
	AnchorAbout:        "About",
	AnchorFeatures:     "Services",
	AnchorEvents:       "Schedule",
	AnchorProcess:      "Process",
	AnchorTestimonials: "Reviews",
	AnchorComparison:   "Compare",
	AnchorGallery:      "Gallery",
	AnchorInvestment:   "Pricing",
	AnchorFAQs:         "FAQ",
	AnchorServiceArea:  "Service Area",
	AnchorContact:      "Contact",
}

// Strategy flag keys.
const (
	ShowTrustbar     = "show_trustbar"
	ShowAbout        = "show_about"
	ShowFeatures     = "show_features"
	ShowEvents       = "show_events"
	ShowProcess      = "show_process"
	ShowTestimonials = "show_testimonials"
	ShowComparison   = "show_comparison"
	ShowGallery      = "show_gallery"
	ShowInvestment   = "show_investment"
	ShowFAQs         = "show_faqs"
	ShowServiceArea  = "show_service_area"
)

// StrategyFlags is the complete, fixed list of strategy keys. Every normalized
// strategy carries exactly these keys.
var StrategyFlags = []string{
	ShowTrustbar,
	ShowAbout,
	ShowFeatures,
	ShowEvents,
	ShowProcess,
	ShowTestimonials,
	ShowComparison,
	ShowGallery,
	ShowInvestment,
	ShowFAQs,
	ShowServiceArea,
}

// strategyDefaults holds the value used when a flag is absent or not a bool.
// Only structural sections default to visible.
var strategyDefaults = map[string]bool{
	ShowAbout:    true,
	ShowFeatures: true,
}

// speculativeFlags gate sections that make claims we cannot verify. They need a
// caller opt-in and real content; they are never synthesized.
var speculativeFlags = []string{
	ShowTestimonials,
	ShowInvestment,
	ShowComparison,
	ShowEvents,
}

// anchorFlags maps a menu anchor to the flag that controls its section.
// #home and #contact are unconditional.
var anchorFlags = map[string]string{
	AnchorAbout:        ShowAbout,
	AnchorFeatures:     ShowFeatures,
	AnchorEvents:       ShowEvents,
	AnchorProcess:      ShowProcess,
	AnchorTestimonials: ShowTestimonials,
	AnchorComparison:   ShowComparison,
	AnchorGallery:      ShowGallery,
	AnchorInvestment:   ShowInvestment,
	AnchorFAQs:         ShowFAQs,
	AnchorServiceArea:  ShowServiceArea,
}

// IconSlugs is the icon set shipped with the site template.
var IconSlugs = []string{
	"zap", "cpu", "layers", "rocket", "leaf", "sprout", "sun", "scissors",
	"truck", "hammer", "wrench", "trash", "sparkles", "heart", "award", "users",
	"map", "shield", "star", "check", "coins", "briefcase", "clock", "phone",
}

const DefaultIcon = "layers"

type iconRule struct {
	substr string
	icon   string
}

// iconRules are tried in order against the lower-cased token; first hit wins.
var iconRules = []iconRule{
	{"user", "users"},
	{"people", "users"},
	{"team", "users"},
	{"group", "users"},
	{"truck", "truck"},
	{"mobile", "truck"},
	{"deliver", "truck"},
	{"clock", "clock"},
	{"calendar", "clock"},
	{"time", "clock"},
	{"schedule", "clock"},
	{"hour", "clock"},
	{"phone", "phone"},
	{"call", "phone"},
	{"shield", "shield"},
	{"secur", "shield"},
	{"insur", "shield"},
	{"lock", "shield"},
	{"award", "award"},
	{"trophy", "award"},
	{"medal", "award"},
	{"star", "star"},
	{"check", "check"},
	{"tool", "wrench"},
	{"wrench", "wrench"},
	{"repair", "wrench"},
	{"hammer", "hammer"},
	{"build", "hammer"},
	{"construct", "hammer"},
	{"leaf", "leaf"},
	{"tree", "leaf"},
	{"plant", "sprout"},
	{"sprout", "sprout"},
	{"seed", "sprout"},
	{"garden", "sprout"},
	{"sun", "sun"},
	{"solar", "sun"},
	{"scissor", "scissors"},
	{"haircut", "scissors"},
	{"trash", "trash"},
	{"waste", "trash"},
	{"sparkle", "sparkles"},
	{"clean", "sparkles"},
	{"shine", "sparkles"},
	{"heart", "heart"},
	{"love", "heart"},
	{"map", "map"},
	{"location", "map"},
	{"globe", "map"},
	{"money", "coins"},
	{"coin", "coins"},
	{"dollar", "coins"},
	{"price", "coins"},
	{"wallet", "coins"},
	{"briefcase", "briefcase"},
	{"business", "briefcase"},
	{"office", "briefcase"},
	{"rocket", "rocket"},
	{"launch", "rocket"},
	{"bolt", "zap"},
	{"lightning", "zap"},
	{"electric", "zap"},
	{"fast", "zap"},
	{"cpu", "cpu"},
	{"chip", "cpu"},
	{"tech", "cpu"},
	{"computer", "cpu"},
	{"layer", "layers"},
	{"stack", "layers"},
}

// Legacy placeholder values that older generators wrote instead of leaving a
// field empty.
var placeholderValues = []string{"n/a", "na", "none", "tbd", "contact for appointment"}
