package skema

import (
	"errors"
	"fmt"
)

// Violation codes. Each names one kind of the error taxonomy; message text is
// not a compatibility surface, codes are.
const (
	CodeInvalidType      = "invalid_type"       // TypeMismatch
	CodeInvalidEnum      = "invalid_enum"       // EnumMismatch
	CodeOutOfRange       = "out_of_range"       // RangeViolation (minimum/maximum/multipleOf)
	CodeInvalidLength    = "invalid_length"     // LengthViolation (string and array bounds)
	CodePattern          = "pattern"            // PatternMismatch
	CodeInvalidFormat    = "invalid_format"     // FormatInvalid
	CodeRequired         = "required"           // MissingRequiredKey
	CodeTooFewProperties = "too_few_properties" // TooFewProperties
	CodeUnionMismatch    = "union_mismatch"     // UnionMismatch
	CodeMissingValue     = "missing_value"      // MissingValue (null where not permitted)
)

// ValidationError describes the single violation found by a failed
// validation.
type ValidationError struct {
	Path    string // dot-joined path, "root" at the top level
	Pointer string // the same location as a JSON Pointer
	Code    string // one of the Code constants
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// AsValidationError extracts a *ValidationError from err using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasCode reports whether err carries a violation with the given code.
func HasCode(err error, code string) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Code == code
}
