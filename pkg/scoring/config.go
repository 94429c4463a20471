package scoring

import (
	"fmt"

	"dario.cat/mergo"
)

// Config holds every magnitude and list the scoring rules use. Negative
// magnitudes are penalties.
type Config struct {
	Age          AgePoints          `json:"age"`
	Registration RegistrationPoints `json:"registration"`
	Tech         TechPoints         `json:"tech"`
	Contacts     ContactPoints      `json:"contacts"`

	// TargetMatch is awarded when the registrant country is in TargetCountries.
	TargetMatch     int      `json:"targetMatch,omitempty"`
	TargetCountries []string `json:"targetCountries,omitempty"`

	// SpamPenalty applies once when the domain contains any SpamKeywords entry.
	SpamPenalty  int      `json:"spamPenalty,omitempty"`
	SpamKeywords []string `json:"spamKeywords,omitempty"`
	// SpamPenaltyOnly makes a spam hit count as SpamPenalty alone. By default a
	// spam hit also floors the total at 0.
	SpamPenaltyOnly bool `json:"spamPenaltyOnly,omitempty"`
}

// AgePoints are awarded by domain age in days.
type AgePoints struct {
	VeryFresh   int `json:"veryFresh,omitempty"`   // < 7 days
	Fresh       int `json:"fresh,omitempty"`       // < 30 days
	New         int `json:"new,omitempty"`         // < 90 days
	Young       int `json:"young,omitempty"`       // < 365 days
	Established int `json:"established,omitempty"` // 365+ days
}

// RegistrationPoints score the completeness of WHOIS data.
type RegistrationPoints struct {
	Registrar    int `json:"registrar,omitempty"`
	Registrant   int `json:"registrant,omitempty"`
	Email        int `json:"email,omitempty"`
	PrivacyProxy int `json:"privacyProxy,omitempty"`
	Country      int `json:"country,omitempty"`

	// PrivacyIndicators are case-insensitive substrings marking a registrant
	// email as a privacy-proxy address.
	PrivacyIndicators []string `json:"privacyIndicators,omitempty"`
}

// TechPoints score the detected technology stack.
type TechPoints struct {
	ValuablePlatform int `json:"valuablePlatform,omitempty"`
	CMS              int `json:"cms,omitempty"`
	Ecommerce        int `json:"ecommerce,omitempty"`
	Framework        int `json:"framework,omitempty"`
	Analytics        int `json:"analytics,omitempty"`
	Marketing        int `json:"marketing,omitempty"`
	ContactForm      int `json:"contactForm,omitempty"`
	LiveChat         int `json:"liveChat,omitempty"`
	// NoStack applies when no technology could be detected at all.
	NoStack int `json:"noStack,omitempty"`

	ValuablePlatforms []string `json:"valuablePlatforms,omitempty"`
}

// ContactPoints score the discovered contacts and page contact evidence.
type ContactPoints struct {
	HasEmail         int `json:"hasEmail,omitempty"`
	MultipleContacts int `json:"multipleContacts,omitempty"`
	GenericEmail     int `json:"genericEmail,omitempty"`
	Phone            int `json:"phone,omitempty"`
	LinkedIn         int `json:"linkedin,omitempty"`
	SocialLinks      int `json:"socialLinks,omitempty"`

	// GenericPrefixes are email local parts that identify role accounts.
	GenericPrefixes []string `json:"genericPrefixes,omitempty"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Age: AgePoints{VeryFresh: 25, Fresh: 20, New: 15, Young: 10, Established: 5},
		Registration: RegistrationPoints{
			Registrar:    5,
			Registrant:   10,
			Email:        8,
			PrivacyProxy: -10,
			Country:      5,
			PrivacyIndicators: []string{
				"whoisguard", "privacyprotect", "whoisproxy", "domainsbyproxy",
				"privacy", "protected", "redacted", "withheld",
			},
		},
		Tech: TechPoints{
			ValuablePlatform:  15,
			CMS:               5,
			Ecommerce:         15,
			Framework:         5,
			Analytics:         5,
			Marketing:         8,
			ContactForm:       10,
			LiveChat:          5,
			NoStack:           -10,
			ValuablePlatforms: []string{"Shopify", "WooCommerce", "Magento", "BigCommerce", "WordPress"},
		},
		Contacts: ContactPoints{
			HasEmail:         15,
			MultipleContacts: 5,
			GenericEmail:     -5,
			Phone:            5,
			LinkedIn:         8,
			SocialLinks:      5,
			GenericPrefixes: []string{
				"info", "contact", "hello", "support", "sales", "admin", "office", "mail", "team", "help",
			},
		},
		TargetMatch:     10,
		TargetCountries: []string{"US", "CA", "UK", "AU", "DE", "FR", "NL"},
		SpamPenalty:     -50,
		SpamKeywords:    []string{"gambling", "casino", "adult", "xxx", "porn", "crypto-scam", "fake"},
	}
}

// Merge returns c with every non-zero field of overrides applied. Lists are
// replaced, not appended. Zero fields count as unset; use Overrides to write
// zeros or empty lists.
func (c Config) Merge(overrides Config) (Config, error) {
	if err := mergo.Merge(&c, overrides, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("could not merge scoring overrides: %w", err)
	}

	return c, nil
}
