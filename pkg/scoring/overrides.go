package scoring

import "slices"

// Overrides is a partial Config. A nil field leaves the base value alone; a
// set field replaces it, zero values and empty lists included.
type Overrides struct {
	Age          AgeOverrides          `json:"age"`
	Registration RegistrationOverrides `json:"registration"`
	Tech         TechOverrides         `json:"tech"`
	Contacts     ContactOverrides      `json:"contacts"`

	TargetMatch     *int     `json:"targetMatch,omitempty"`
	TargetCountries []string `json:"targetCountries,omitempty"`

	SpamPenalty     *int     `json:"spamPenalty,omitempty"`
	SpamKeywords    []string `json:"spamKeywords,omitempty"`
	SpamPenaltyOnly *bool    `json:"spamPenaltyOnly,omitempty"`
}

type AgeOverrides struct {
	VeryFresh   *int `json:"veryFresh,omitempty"`
	Fresh       *int `json:"fresh,omitempty"`
	New         *int `json:"new,omitempty"`
	Young       *int `json:"young,omitempty"`
	Established *int `json:"established,omitempty"`
}

type RegistrationOverrides struct {
	Registrar         *int     `json:"registrar,omitempty"`
	Registrant        *int     `json:"registrant,omitempty"`
	Email             *int     `json:"email,omitempty"`
	PrivacyProxy      *int     `json:"privacyProxy,omitempty"`
	Country           *int     `json:"country,omitempty"`
	PrivacyIndicators []string `json:"privacyIndicators,omitempty"`
}

type TechOverrides struct {
	ValuablePlatform  *int     `json:"valuablePlatform,omitempty"`
	CMS               *int     `json:"cms,omitempty"`
	Ecommerce         *int     `json:"ecommerce,omitempty"`
	Framework         *int     `json:"framework,omitempty"`
	Analytics         *int     `json:"analytics,omitempty"`
	Marketing         *int     `json:"marketing,omitempty"`
	ContactForm       *int     `json:"contactForm,omitempty"`
	LiveChat          *int     `json:"liveChat,omitempty"`
	NoStack           *int     `json:"noStack,omitempty"`
	ValuablePlatforms []string `json:"valuablePlatforms,omitempty"`
}

type ContactOverrides struct {
	HasEmail         *int     `json:"hasEmail,omitempty"`
	MultipleContacts *int     `json:"multipleContacts,omitempty"`
	GenericEmail     *int     `json:"genericEmail,omitempty"`
	Phone            *int     `json:"phone,omitempty"`
	LinkedIn         *int     `json:"linkedin,omitempty"`
	SocialLinks      *int     `json:"socialLinks,omitempty"`
	GenericPrefixes  []string `json:"genericPrefixes,omitempty"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = slices.Clone(v)
	}
}

// Apply returns base with every set field of o written over it.
func (o Overrides) Apply(base Config) Config {
	c := base

	set(&c.Age.VeryFresh, o.Age.VeryFresh)
	set(&c.Age.Fresh, o.Age.Fresh)
	set(&c.Age.New, o.Age.New)
	set(&c.Age.Young, o.Age.Young)
	set(&c.Age.Established, o.Age.Established)

	r := o.Registration
	set(&c.Registration.Registrar, r.Registrar)
	set(&c.Registration.Registrant, r.Registrant)
	set(&c.Registration.Email, r.Email)
	set(&c.Registration.PrivacyProxy, r.PrivacyProxy)
	set(&c.Registration.Country, r.Country)
	setList(&c.Registration.PrivacyIndicators, r.PrivacyIndicators)

	t := o.Tech
	set(&c.Tech.ValuablePlatform, t.ValuablePlatform)
	set(&c.Tech.CMS, t.CMS)
	set(&c.Tech.Ecommerce, t.Ecommerce)
	set(&c.Tech.Framework, t.Framework)
	set(&c.Tech.Analytics, t.Analytics)
	set(&c.Tech.Marketing, t.Marketing)
	set(&c.Tech.ContactForm, t.ContactForm)
	set(&c.Tech.LiveChat, t.LiveChat)
	set(&c.Tech.NoStack, t.NoStack)
	setList(&c.Tech.ValuablePlatforms, t.ValuablePlatforms)

	ct := o.Contacts
	set(&c.Contacts.HasEmail, ct.HasEmail)
	set(&c.Contacts.MultipleContacts, ct.MultipleContacts)
	set(&c.Contacts.GenericEmail, ct.GenericEmail)
	set(&c.Contacts.Phone, ct.Phone)
	set(&c.Contacts.LinkedIn, ct.LinkedIn)
	set(&c.Contacts.SocialLinks, ct.SocialLinks)
	setList(&c.Contacts.GenericPrefixes, ct.GenericPrefixes)

	set(&c.TargetMatch, o.TargetMatch)
	setList(&c.TargetCountries, o.TargetCountries)
	set(&c.SpamPenalty, o.SpamPenalty)
	setList(&c.SpamKeywords, o.SpamKeywords)
	set(&c.SpamPenaltyOnly, o.SpamPenaltyOnly)

	return c
}
