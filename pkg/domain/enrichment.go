package domain

import "time"

// Enrichment is the best-effort aggregate produced for one domain. Any of
// Registration, TechStack and Score may be nil; Contacts and Errors are never
// nil so the serialized form always carries arrays.
type Enrichment struct {
	Domain        string          `json:"domain"`
	Registration  *Registration   `json:"registration"`
	TechStack     *TechStack      `json:"techStack"`
	Contacts      []Contact       `json:"contacts"`
	ContactSource ContactSource   `json:"contactSource,omitempty"`
	Score         *ScoreBreakdown `json:"score"`
	Errors        []string        `json:"errors"`
	EnrichedAt    time.Time       `json:"enrichedAt"`
}
