package marble

import "errors"

var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("marble: parameter out of valid bounds")

	ErrUnknownParam = errors.New("marble: unknown parameter")
)

// Discard explains why a sample was not applied.
type Discard int

const (
	Applied Discard = iota
	// Stale samples arrive more than MaxDt after the previous one.
	Stale
	// Invalid samples carry NaN or infinite values.
	Invalid
	// Backwards samples have a negative dt.
	Backwards
)

func (d Discard) String() string {
	switch d {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Invalid:
		return "invalid"
	case Backwards:
		return "backwards"
	}
	return "unknown"
}
