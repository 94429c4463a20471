package domain

// ScoreBreakdown explains a 0-100 quality score. Subscores are signed and
// unclamped; Total is their sum clamped once to [0, 100]. Factors lists one
// human-readable entry per fired rule in evaluation order.
type ScoreBreakdown struct {
	DomainAge           int      `json:"domainAge"`
	RegistrationQuality int      `json:"registrationQuality"`
	TechStackQuality    int      `json:"techStackQuality"`
	ContactQuality      int      `json:"contactQuality"`
	TargetMatch         int      `json:"targetMatch"`
	SpamPenalty         int      `json:"spamPenalty"`
	Total               int      `json:"total"`
	Factors             []string `json:"factors"`
}
