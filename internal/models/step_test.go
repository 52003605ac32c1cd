package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_Ordering(t *testing.T) {
	assert.Equal(t, StepSchedule, StepDetails.Next())
	assert.Equal(t, StepReview, StepAdditionalInfo.Next())
	assert.Equal(t, StepReview, StepReview.Next(), "review is terminal")
	assert.Equal(t, StepDetails, StepDetails.Prev(), "details is the floor")
	assert.Equal(t, StepArtists, StepAdditionalInfo.Prev())
}

func TestStep_Names(t *testing.T) {
	assert.Equal(t, "additional-info", StepAdditionalInfo.String())

	s, err := ParseStep("venue")
	require.NoError(t, err)
	assert.Equal(t, StepVenue, s)

	_, err = ParseStep("checkout")
	assert.Error(t, err)
}

func TestStep_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(StepSponsors)
	require.NoError(t, err)
	assert.Equal(t, `"sponsors"`, string(data))

	var s Step
	require.NoError(t, json.Unmarshal([]byte(`"tickets"`), &s))
	assert.Equal(t, StepTickets, s)
}

func TestStep_Valid(t *testing.T) {
	assert.True(t, StepDetails.Valid())
	assert.True(t, StepReview.Valid())
	assert.False(t, Step(0).Valid())
	assert.False(t, Step(9).Valid())
}
