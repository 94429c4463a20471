package domain

// ContactSource tags which discovery provider produced a contact.
type ContactSource string

const (
	ContactSourceHunter ContactSource = "hunter"
	ContactSourceSnov   ContactSource = "snov"
	ContactSourceNone   ContactSource = "none"
)

// Contact is a single discovered email address. Email is the identity of a
// contact and compares case-insensitively.
type Contact struct {
	Email      string        `json:"email"`
	FirstName  string        `json:"firstName,omitempty"`
	LastName   string        `json:"lastName,omitempty"`
	Position   string        `json:"position,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	LinkedIn   string        `json:"linkedin,omitempty"`
	Twitter    string        `json:"twitter,omitempty"`
	Source     ContactSource `json:"source"`
	Confidence int           `json:"confidence"`
}
