package fieldmapping

import (
	"errors"
	"fmt"
)

// ErrUnsupportedField is returned when a mapping key is requested for a field
// outside the known set.
var ErrUnsupportedField = errors.New("unsupported field mapping")

// MissingFieldError is returned when a caller requires a field that has no
// mapping for the external system.
type MissingFieldError struct {
	Field            FieldID
	ExternalSystemID ExternalSystemID
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field mapping for %s is missing for external system %d", e.Field, e.ExternalSystemID)
}
