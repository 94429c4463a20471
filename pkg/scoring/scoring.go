// Package scoring turns enrichment evidence into a bounded, explainable 0-100
// quality score. Score is a pure function: identical evidence, configuration
// and reference time always produce an identical breakdown, factor order
// included.
package scoring

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"domainintel/pkg/domain"
)

const (
	minTotal = 0
	maxTotal = 100
)

// Evidence is everything the score is computed from. Any part may be missing.
type Evidence struct {
	Domain       string
	Registration *domain.Registration
	TechStack    *domain.TechStack
	Contacts     []domain.Contact
}

// EvidenceOf extracts scoring evidence from an enrichment record.
func EvidenceOf(e *domain.Enrichment) Evidence {
	return Evidence{
		Domain:       e.Domain,
		Registration: e.Registration,
		TechStack:    e.TechStack,
		Contacts:     e.Contacts,
	}
}

// breakdown accumulates subscores and factors in evaluation order.
type breakdown struct {
	domain.ScoreBreakdown
}

func (b *breakdown) add(sub *int, points int, factor string, args ...any) {
	*sub += points
	b.Factors = append(b.Factors, fmt.Sprintf(factor, args...))
}

// Score evaluates the domain age, registration, technology, contact and spam
// rules in that order and sums the subscores. The total is clamped to [0, 100]
// once, after summing; subscores are never clamped.
func Score(ev Evidence, cfg Config, now time.Time) domain.ScoreBreakdown {
	b := &breakdown{ScoreBreakdown: domain.ScoreBreakdown{Factors: []string{}}}

	b.scoreAge(ev.Registration, cfg.Age, now)
	b.scoreRegistration(ev.Registration, cfg)
	b.scoreTech(ev.TechStack, cfg.Tech)
	b.scoreContacts(ev.Contacts, ev.TechStack, cfg.Contacts)
	spam := b.scoreSpam(ev.Domain, cfg)

	sum := b.DomainAge + b.RegistrationQuality + b.TechStackQuality + b.ContactQuality + b.TargetMatch + b.SpamPenalty
	b.Total = max(minTotal, min(maxTotal, sum))
	if spam && !cfg.SpamPenaltyOnly {
		b.Total = minTotal
	}

	return b.ScoreBreakdown
}

// AgeDays is the whole number of days since t, rounded up.
func AgeDays(t, now time.Time) int {
	return int(math.Ceil(now.Sub(t).Hours() / 24))
}

func (b *breakdown) scoreAge(reg *domain.Registration, points AgePoints, now time.Time) {
	if reg == nil || reg.CreatedAt == nil {
		return
	}

	switch days := AgeDays(*reg.CreatedAt, now); {
	case days < 7:
		b.add(&b.DomainAge, points.VeryFresh, "Very fresh domain (< 7 days)")
	case days < 30:
		b.add(&b.DomainAge, points.Fresh, "Fresh domain (< 30 days)")
	case days < 90:
		b.add(&b.DomainAge, points.New, "New domain (< 90 days)")
	case days < 365:
		b.add(&b.DomainAge, points.Young, "Young domain (< 1 year)")
	default:
		b.add(&b.DomainAge, points.Established, "Established domain (1+ years)")
	}
}

func (b *breakdown) scoreRegistration(reg *domain.Registration, cfg Config) {
	if reg == nil {
		return
	}
	points := cfg.Registration

	if reg.HasRegistrar() {
		b.add(&b.RegistrationQuality, points.Registrar, "Has registrar")
	}
	if reg.RegistrantOrg != "" || reg.RegistrantName != "" {
		b.add(&b.RegistrationQuality, points.Registrant, "Has registrant organization")
	}
	if reg.RegistrantEmail != "" {
		b.add(&b.RegistrationQuality, points.Email, "Has registrant email")
		if containsAny(reg.RegistrantEmail, points.PrivacyIndicators) != "" {
			b.add(&b.RegistrationQuality, points.PrivacyProxy, "Privacy-protected WHOIS")
		}
	}
	if country := strings.ToUpper(strings.TrimSpace(reg.RegistrantCountry)); country != "" {
		b.add(&b.RegistrationQuality, points.Country, "Has registrant country")
		if CountryIn(country, cfg.TargetCountries) {
			b.add(&b.TargetMatch, cfg.TargetMatch, "Target country: %s", country)
		}
	}
}

func (b *breakdown) scoreTech(stack *domain.TechStack, points TechPoints) {
	if stack.Empty() {
		b.add(&b.TechStackQuality, points.NoStack, "No tech stack detected")

		return
	}

	switch {
	case containsFold(points.ValuablePlatforms, stack.CMS):
		b.add(&b.TechStackQuality, points.ValuablePlatform, "Valuable CMS: %s", stack.CMS)
	case containsFold(points.ValuablePlatforms, stack.Ecommerce):
		b.add(&b.TechStackQuality, points.ValuablePlatform, "Valuable CMS: %s", stack.Ecommerce)
	case stack.CMS != "":
		b.add(&b.TechStackQuality, points.CMS, "Has CMS: %s", stack.CMS)
	}
	if stack.Ecommerce != "" {
		b.add(&b.TechStackQuality, points.Ecommerce, "E-commerce: %s", stack.Ecommerce)
	}
	if len(stack.Frameworks) > 0 {
		b.add(&b.TechStackQuality, points.Framework, "Uses framework: %s", strings.Join(stack.Frameworks, ", "))
	}
	if len(stack.Analytics) > 0 {
		b.add(&b.TechStackQuality, points.Analytics, "Has analytics")
	}
	if len(stack.Marketing) > 0 {
		b.add(&b.TechStackQuality, points.Marketing, "Has marketing tools")
	}
	if stack.HasContactForm {
		b.add(&b.TechStackQuality, points.ContactForm, "Has contact form")
	}
	if stack.HasLiveChat {
		b.add(&b.TechStackQuality, points.LiveChat, "Has live chat")
	}
}

func (b *breakdown) scoreContacts(contacts []domain.Contact, stack *domain.TechStack, points ContactPoints) {
	if n := len(contacts); n > 0 {
		b.add(&b.ContactQuality, points.HasEmail, "Has %d email(s)", n)
		if n > 1 {
			b.add(&b.ContactQuality, points.MultipleContacts, "Multiple contacts")
		}
	}

	var generic, phone, linkedin, social bool
	for _, c := range contacts {
		local, _, _ := strings.Cut(strings.ToLower(c.Email), "@")
		generic = generic || containsFold(points.GenericPrefixes, local)
		phone = phone || c.Phone != ""
		linkedin = linkedin || c.LinkedIn != ""
		social = social || c.LinkedIn != "" || c.Twitter != ""
	}
	if stack != nil {
		phone = phone || len(stack.Phones) > 0
		social = social || len(stack.SocialLinks) > 0
		for _, link := range stack.SocialLinks {
			linkedin = linkedin || isLinkedIn(link)
		}
	}

	if generic {
		b.add(&b.ContactQuality, points.GenericEmail, "Generic email address")
	}
	if phone {
		b.add(&b.ContactQuality, points.Phone, "Has phone number")
	}
	if linkedin {
		b.add(&b.ContactQuality, points.LinkedIn, "Has LinkedIn")
	}
	if social {
		b.add(&b.ContactQuality, points.SocialLinks, "Has social links")
	}
}

func (b *breakdown) scoreSpam(host string, cfg Config) bool {
	kw := containsAny(host, cfg.SpamKeywords)
	if kw == "" {
		return false
	}
	b.add(&b.SpamPenalty, cfg.SpamPenalty, "Spam keyword: %s", kw)

	return true
}

// containsAny returns the first needle found in s, case-insensitively.
func containsAny(s string, needles []string) string {
	s = strings.ToLower(s)
	for _, n := range needles {
		if n != "" && strings.Contains(s, strings.ToLower(n)) {
			return n
		}
	}

	return ""
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}

	return false
}

// CountryIn reports whether country is in list. Codes match
// case-insensitively and GB and UK name the same country.
func CountryIn(country string, list []string) bool {
	alias := func(c string) string {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "GB" {
			return "UK"
		}

		return c
	}
	country = alias(country)
	if country == "" {
		return false
	}
	for _, c := range list {
		if alias(c) == country {
			return true
		}
	}

	return false
}

func isLinkedIn(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())

	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}
