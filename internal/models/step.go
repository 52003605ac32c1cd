package models

import (
	"encoding/json"
	"fmt"
)

// Step identifies one screen of the event composition wizard.
type Step int

const (
	StepDetails Step = iota + 1
	StepSchedule
	StepTickets
	StepVenue
	StepSponsors
	StepArtists
	StepAdditionalInfo
	StepReview
)

var stepNames = map[Step]string{
	StepDetails:        "details",
	StepSchedule:       "schedule",
	StepTickets:        "tickets",
	StepVenue:          "venue",
	StepSponsors:       "sponsors",
	StepArtists:        "artists",
	StepAdditionalInfo: "additional-info",
	StepReview:         "review",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) Valid() bool {
	return s >= StepDetails && s <= StepReview
}

// Next returns the following step, capped at the review screen.
func (s Step) Next() Step {
	if s >= StepReview {
		return StepReview
	}
	return s + 1
}

// Prev returns the preceding step, capped at the first screen.
func (s Step) Prev() Step {
	if s <= StepDetails {
		return StepDetails
	}
	return s - 1
}

// MarshalJSON emits the step name; clients never see the numeric index.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStep(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown wizard step: %s", name)
}
