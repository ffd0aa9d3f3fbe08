package providers

import "time"

// Provider is a healthcare provider whose price lists can be ingested.
// Slug is the stable identifier used as the key of catalog price tables;
// its uniqueness is enforced before insert.
type Provider struct {
	ID          string            `json:"-"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	LogoURL     string            `json:"logo_url,omitempty"`
	Website     string            `json:"website,omitempty"`
	Location    string            `json:"location,omitempty"`
	ContactInfo map[string]string `json:"contact_info,omitempty"`
	CreatedAt   time.Time         `json:"-"`
}
