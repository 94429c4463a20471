package fingerprint

import (
	"net/http"

	"domainintel/pkg/domain"
)

// Classifier evaluates every signature of a registry against page evidence.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	registry *Registry
}

// NewClassifier returns a classifier over r, or over the built-in registry
// when r is nil.
func NewClassifier(r *Registry) *Classifier {
	if r == nil {
		r = DefaultRegistry()
	}

	return &Classifier{registry: r}
}

// Detect classifies a fetched page. Every signature is evaluated; within a
// category matches keep registry order and the first one becomes the primary
// value of singular categories. When no CMS matched the CMS slot falls back to
// the e-commerce platform. A page matching nothing yields an empty stack.
func (c *Classifier) Detect(html []byte, headers http.Header) *domain.TechStack {
	return c.detect(NewEvidence(html, headers))
}

func (c *Classifier) detect(ev *Evidence) *domain.TechStack {
	stack := &domain.TechStack{
		Frameworks:  []string{},
		Analytics:   []string{},
		Marketing:   []string{},
		Features:    []string{},
		Matches:     map[domain.Category][]string{},
		SocialLinks: ev.SocialLinks,
		Phones:      ev.Phones,
	}

	for _, sig := range c.registry.signatures {
		if !sig.Matches(ev) {
			continue
		}
		stack.Matches[sig.Category] = append(stack.Matches[sig.Category], sig.Name)

		switch sig.Feature {
		case FeatureContactForm:
			stack.HasContactForm = true
		case FeatureLiveChat:
			stack.HasLiveChat = true
		case FeatureNone:
		}
	}

	primary := func(cat domain.Category) string {
		if names := stack.Matches[cat]; len(names) > 0 {
			return names[0]
		}

		return ""
	}
	list := func(cat domain.Category) []string {
		return append([]string{}, stack.Matches[cat]...)
	}

	stack.CMS = primary(domain.CategoryCMS)
	stack.Ecommerce = primary(domain.CategoryEcommerce)
	stack.Hosting = primary(domain.CategoryHosting)
	stack.CDN = primary(domain.CategoryCDN)
	if stack.CMS == "" {
		stack.CMS = stack.Ecommerce
	}

	stack.Frameworks = list(domain.CategoryFramework)
	stack.Analytics = list(domain.CategoryAnalytics)
	stack.Marketing = list(domain.CategoryMarketing)
	stack.Features = list(domain.CategoryFeature)

	return stack
}
