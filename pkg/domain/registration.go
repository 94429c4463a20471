package domain

import "time"

// UnknownRegistrar is used when the registry response names no registrar.
const UnknownRegistrar = "Unknown"

// Registration is normalized WHOIS metadata for a domain. Every field except
// Registrar is optional.
type Registration struct {
	Registrar   string     `json:"registrar"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	NameServers []string   `json:"nameServers,omitempty"`

	RegistrantName    string `json:"registrantName,omitempty"`
	RegistrantOrg     string `json:"registrantOrg,omitempty"`
	RegistrantEmail   string `json:"registrantEmail,omitempty"`
	RegistrantCountry string `json:"registrantCountry,omitempty"`
}

// HasRegistrar reports whether the record names an actual registrar.
func (r *Registration) HasRegistrar() bool {
	return r != nil && r.Registrar != "" && r.Registrar != UnknownRegistrar
}
