package models

// Sponsor belongs to an event flagged as sponsored. The whole list is always
// replaced atomically on the event root; there are no per-sponsor endpoints.
type Sponsor struct {
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url,omitempty"`
	WebsiteURL string `json:"website_url,omitempty"`
	IsPrimary  bool   `json:"is_primary"`
}

// SponsorBundle is the sponsor step's form state: the "is this event
// sponsored" toggle plus the list behind it.
type SponsorBundle struct {
	Sponsored bool      `json:"sponsored"`
	Sponsors  []Sponsor `json:"sponsors"`
}
