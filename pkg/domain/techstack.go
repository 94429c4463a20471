package domain

// Category groups technology signatures. Singular categories (CMS, e-commerce,
// hosting, CDN) expose a primary value on TechStack; the rest are lists.
type Category string

const (
	CategoryCMS       Category = "cms"
	CategoryFramework Category = "framework"
	CategoryAnalytics Category = "analytics"
	CategoryMarketing Category = "marketing"
	CategoryEcommerce Category = "ecommerce"
	CategoryHosting   Category = "hosting"
	CategoryCDN       Category = "cdn"
	CategoryFeature   Category = "feature"
)

// Categories lists every category in a stable order.
var Categories = []Category{ //nolint: gochecknoglobals
	CategoryCMS,
	CategoryFramework,
	CategoryAnalytics,
	CategoryMarketing,
	CategoryEcommerce,
	CategoryHosting,
	CategoryCDN,
	CategoryFeature,
}

// TechStack is the outcome of classifying one fetched page.
type TechStack struct {
	// CMS is the first matching CMS signature, falling back to the e-commerce
	// platform when no CMS matched.
	CMS       string `json:"cms,omitempty"`
	Ecommerce string `json:"ecommerce,omitempty"`
	Hosting   string `json:"hosting,omitempty"`
	CDN       string `json:"cdn,omitempty"`

	Frameworks []string `json:"frameworks"`
	Analytics  []string `json:"analytics"`
	Marketing  []string `json:"marketing"`
	Features   []string `json:"features"`

	// Matches holds every matched signature per category in registry order.
	Matches map[Category][]string `json:"matches,omitempty"`

	HasContactForm bool `json:"hasContactForm"`
	HasLiveChat    bool `json:"hasLiveChat"`

	// SocialLinks and Phones are page evidence collected from anchors while
	// classifying; they do not count as detected technologies.
	SocialLinks []string `json:"socialLinks,omitempty"`
	Phones      []string `json:"phones,omitempty"`
}

// Empty reports whether no technology or feature signature matched.
func (t *TechStack) Empty() bool {
	if t == nil {
		return true
	}
	for _, names := range t.Matches {
		if len(names) > 0 {
			return false
		}
	}

	return !t.HasContactForm && !t.HasLiveChat
}

// Technologies returns the strings technology filters match against:
// CMS, e-commerce, frameworks and marketing tools.
func (t *TechStack) Technologies() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, 2+len(t.Frameworks)+len(t.Marketing))
	if t.CMS != "" {
		out = append(out, t.CMS)
	}
	if t.Ecommerce != "" {
		out = append(out, t.Ecommerce)
	}
	out = append(out, t.Frameworks...)
	out = append(out, t.Marketing...)

	return out
}
