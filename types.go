package skema

// DefaultStride is the sampling stride used by the package-level functions.
// It is prime so that sampled positions do not line up with common periodic
// layouts in the data.
const DefaultStride = 97

// Config is fixed for the lifetime of a Validator.
type Config struct {
	// Stride is the sampling threshold and interval for homogeneous arrays
	// and additionalProperties dictionaries. Values < 1 mean DefaultStride.
	Stride int
}

// ErrorFunc receives the single violation of a failed validation. It may
// panic to turn the failure into an abort at the call site; the panic
// propagates out of Validate unchanged.
type ErrorFunc func(path, message string)

// Options apply to a single validation call.
type Options struct {
	// OnError, when set, is invoked exactly once with the first violation.
	OnError ErrorFunc
	// FullScan disables sampling: every array element and every
	// additionalProperties key is checked.
	FullScan bool
}
