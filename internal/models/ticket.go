package models

// Ticket is a per-event ticket tier. Tickets are not diffed: each add is an
// immediate create, each remove an immediate delete, keyed by the backend id.
type Ticket struct {
	ID        string  `json:"id,omitempty"`
	EventID   string  `json:"event_id,omitempty"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	VenueNote string  `json:"venue_note,omitempty"`
}
