package models

type Gender string

const (
	GenderMale        Gender = "MALE"
	GenderFemale      Gender = "FEMALE"
	GenderGroup       Gender = "GROUP"
	GenderUnspecified Gender = "UNSPECIFIED"
)

// Artist is a performer on the lineup. Artists are created once each, tracked
// by list position, and the filtered list is also pushed onto the event root
// as a denormalized read optimization.
type Artist struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Gender    Gender `json:"gender,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Website   string `json:"website,omitempty"`
}

// SocialLinks returns the artist's non-empty social links in a fixed order.
func (a Artist) SocialLinks() []string {
	var links []string
	for _, l := range []string{a.Instagram, a.Facebook, a.Twitter, a.Website} {
		if l != "" {
			links = append(links, l)
		}
	}
	return links
}
