package models

// Venue is the one-per-event venue sub-resource. Latitude/Longitude are
// accepted and forwarded but not used anywhere yet.
type Venue struct {
	ID           string  `json:"id,omitempty"`
	EventID      string  `json:"event_id,omitempty"`
	Name         string  `json:"name"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 string  `json:"address_line2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	PostalCode   string  `json:"postal_code"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
}
