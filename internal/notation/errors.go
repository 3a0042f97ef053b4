package notation

import (
	"errors"
	"strings"
)

// ErrMalformedDocument is returned when the input is not JSON, or not a
// JSON object when decoded straight into an AnalysisDocument.
var ErrMalformedDocument = errors.New("malformed analysis document")

// InvalidInputError is returned by the renderer when the document fails
// validation. Errors holds the validator messages in check order.
type InvalidInputError struct {
	Errors []string
}

func (e *InvalidInputError) Error() string {
	return "invalid analysis document: " + strings.Join(e.Errors, "; ")
}
