package diff

import (
	"strings"

	"ms-composer/internal/models"
)

// Normalized shapes are plain value types compared with reflect.DeepEqual.
// Raw form state is never compared directly: trimming, primary derivation and
// stable field ordering happen here so representation noise ("" vs missing,
// list order) can't look like an edit.

type Details struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	EventType   string
}

func NormalizeDetails(f models.DetailsForm) Details {
	return Details{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		Subcategory: strings.TrimSpace(f.Subcategory),
		EventType:   strings.TrimSpace(f.EventType),
	}
}

// Schedule keeps the four raw input strings. Comparing derived instants would
// flag timezone re-serialization as a change.
type Schedule struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

func NormalizeSchedule(f models.ScheduleForm) Schedule {
	return Schedule{
		StartDate: strings.TrimSpace(f.StartDate),
		StartTime: strings.TrimSpace(f.StartTime),
		EndDate:   strings.TrimSpace(f.EndDate),
		EndTime:   strings.TrimSpace(f.EndTime),
	}
}

type Venue struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Country      string
	PostalCode   string
	Phone        string
	Email        string
}

// NormalizeVenue intentionally drops the venue id: a re-created venue with
// identical fields is not a change.
func NormalizeVenue(v models.Venue) Venue {
	return Venue{
		Name:         strings.TrimSpace(v.Name),
		AddressLine1: strings.TrimSpace(v.AddressLine1),
		AddressLine2: strings.TrimSpace(v.AddressLine2),
		City:         strings.TrimSpace(v.City),
		State:        strings.TrimSpace(v.State),
		Country:      strings.TrimSpace(v.Country),
		PostalCode:   strings.TrimSpace(v.PostalCode),
		Phone:        strings.TrimSpace(v.Phone),
		Email:        strings.ToLower(strings.TrimSpace(v.Email)),
	}
}

type Sponsor struct {
	Name       string
	LogoURL    string
	WebsiteURL string
	IsPrimary  bool
}

// NormalizeSponsors strips empty entries and derives the primary flag so the
// invariant holds: any non-empty list has exactly one primary sponsor. The
// first sponsor marked primary wins; if none is marked, the first in the list
// becomes primary.
func NormalizeSponsors(list []models.Sponsor) []Sponsor {
	out := []Sponsor{}
	for _, s := range list {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		out = append(out, Sponsor{
			Name:       name,
			LogoURL:    strings.TrimSpace(s.LogoURL),
			WebsiteURL: strings.TrimSpace(s.WebsiteURL),
			IsPrimary:  s.IsPrimary,
		})
	}
	if len(out) == 0 {
		return out
	}

	primary := -1
	for i := range out {
		if out[i].IsPrimary && primary == -1 {
			primary = i
		}
		out[i].IsPrimary = false
	}
	if primary == -1 {
		primary = 0
	}
	out[primary].IsPrimary = true
	return out
}

type Artist struct {
	Name     string
	Gender   models.Gender
	PhotoURL string
	Links    []string
}

// NormalizeArtists silently drops artists with an empty name; only named
// artists are ever persisted. Social links collapse into one slice with a
// fixed field order so key order can't register as a change.
func NormalizeArtists(list []models.Artist) []Artist {
	out := []Artist{}
	for _, a := range list {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		norm := Artist{
			Name:     name,
			Gender:   a.Gender,
			PhotoURL: strings.TrimSpace(a.PhotoURL),
		}
		for _, l := range a.SocialLinks() {
			if trimmed := strings.TrimSpace(l); trimmed != "" {
				norm.Links = append(norm.Links, trimmed)
			}
		}
		out = append(out, norm)
	}
	return out
}

type AdditionalInfo struct {
	Terms         string
	AgeRestricted bool
	Accessible    bool
	Advisories    []string
	FAQs          []models.QA
	OrganizerNote string
}

func NormalizeAdditionalInfo(f models.AdditionalInfoForm) AdditionalInfo {
	norm := AdditionalInfo{
		Terms:         strings.TrimSpace(f.Terms),
		AgeRestricted: f.AgeRestricted,
		Accessible:    f.Accessible,
		OrganizerNote: strings.TrimSpace(f.OrganizerNote),
	}
	for _, a := range f.Advisories {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			norm.Advisories = append(norm.Advisories, trimmed)
		}
	}
	for _, qa := range f.FAQs {
		q := strings.TrimSpace(qa.Question)
		ans := strings.TrimSpace(qa.Answer)
		if q == "" && ans == "" {
			continue
		}
		norm.FAQs = append(norm.FAQs, models.QA{Question: q, Answer: ans})
	}
	return norm
}
