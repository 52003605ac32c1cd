package draft

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"ms-composer/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// ValidationError marks a step failure that never reached the network.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// mergeFieldError folds an extra field error into an ozzo error map.
func mergeFieldError(err error, field string, fieldErr error) error {
	errs, ok := err.(validation.Errors)
	if !ok {
		errs = validation.Errors{}
		if err != nil {
			errs["_"] = err
		}
	}
	errs[field] = fieldErr
	return errs
}

func validateDetails(f models.DetailsForm, hasCover bool) error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(1, 150)),
		validation.Field(&f.Category, validation.Required),
		validation.Field(&f.Subcategory, validation.Required),
		validation.Field(&f.Description, validation.Length(0, 5000)),
	)
	if !hasCover {
		err = mergeFieldError(err, "cover_image", errors.New("cover image is required"))
	}
	return invalid(err)
}

func validateSchedule(f models.ScheduleForm) error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&f.StartTime, validation.Required, validation.Date(timeLayout)),
		validation.Field(&f.EndDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&f.EndTime, validation.Required, validation.Date(timeLayout)),
	)
	if err != nil {
		return invalid(err)
	}

	startsAt, endsAt, perr := parseScheduleWindow(f)
	if perr != nil {
		return invalid(perr)
	}
	if endsAt.Before(startsAt) {
		return invalid(validation.Errors{
			"end_date": errors.New("event end must not precede its start"),
		})
	}
	return nil
}

// parseScheduleWindow derives the instants sent to the backend. Diffing never
// uses these; only validation and the write payload do.
func parseScheduleWindow(f models.ScheduleForm) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(dateTimeLayout, f.StartDate+" "+f.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date/time: %w", err)
	}
	endsAt, err := time.Parse(dateTimeLayout, f.EndDate+" "+f.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date/time: %w", err)
	}
	return startsAt, endsAt, nil
}

func validateTicket(t models.Ticket) error {
	return invalid(validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&t.Category, validation.Required),
		validation.Field(&t.Price, validation.Min(0.0)),
		validation.Field(&t.Capacity, validation.Required, validation.Min(1)),
	))
}

func validateVenue(v models.Venue) error {
	return invalid(validation.ValidateStruct(&v,
		validation.Field(&v.Name, validation.Required),
		validation.Field(&v.AddressLine1, validation.Required),
		validation.Field(&v.City, validation.Required),
		validation.Field(&v.State, validation.Required),
		validation.Field(&v.Country, validation.Required),
		validation.Field(&v.PostalCode, validation.Required),
		validation.Field(&v.Phone, validation.Required),
		validation.Field(&v.Email, validation.Required, is.Email),
	))
}

func validateSponsors(list []models.Sponsor) error {
	errs := validation.Errors{}
	for i, s := range list {
		if err := validation.Validate(s.Name, validation.Required); err != nil {
			errs[fmt.Sprintf("sponsors.%d.name", i)] = errors.New("sponsor name is required")
		}
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return nil
}

// validateArtists enforces the lineup invariant: a named artist needs at
// least one social link. Unnamed entries are ignored, they get dropped later.
func validateArtists(list []models.Artist) error {
	errs := validation.Errors{}
	for i, a := range list {
		if err := validation.Validate(a.Name, validation.Required); err != nil {
			continue
		}
		if len(a.SocialLinks()) == 0 {
			errs[fmt.Sprintf("artists.%d.links", i)] = errors.New("artist needs at least one social link")
		}
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return nil
}

func validateAdditionalInfo(f models.AdditionalInfoForm) error {
	errs := validation.Errors{}
	for i, qa := range f.FAQs {
		if qa.Question == "" && qa.Answer != "" {
			errs[fmt.Sprintf("faqs.%d.question", i)] = errors.New("answer given without a question")
		}
		if qa.Question != "" && qa.Answer == "" {
			errs[fmt.Sprintf("faqs.%d.answer", i)] = errors.New("question needs an answer")
		}
	}
	if len(errs) > 0 {
		return invalid(errs)
	}
	return nil
}
