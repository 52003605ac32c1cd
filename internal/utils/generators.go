package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateDraftID creates the client-side ephemeral id for a wizard run. It
// identifies the draft session until the backend assigns a real event id.
func GenerateDraftID() string {
	return fmt.Sprintf("draft_%s", uuid.NewString())
}

// GenerateLocalID creates an id for purely local entities such as staged
// uploads that never reached transient storage.
func GenerateLocalID() string {
	return fmt.Sprintf("local_%s", uuid.NewString())
}
