package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for unit conversion and sort parsing.
// These can be compared with errors.Is().
var (
	// ErrInvalidUnit indicates an unrecognized energy or carbon unit.
	ErrInvalidUnit = constError("invalid unit")

	// ErrNegativeValue indicates a negative energy or carbon value.
	ErrNegativeValue = constError("negative value")

	// ErrCalculationOverflow indicates a non-finite input or result.
	ErrCalculationOverflow = constError("calculation overflow")

	// ErrInvalidSortField indicates a region sort field that is not name or carbon intensity.
	ErrInvalidSortField = constError("invalid sort field")

	// ErrInvalidSortOrder indicates a sort order other than asc or desc.
	ErrInvalidSortOrder = constError("invalid sort order")
)
