package snow

import "errors"

var (
	// ErrInvalidSurface indicates a drawing surface with non-positive or non-finite size.
	ErrInvalidSurface = errors.New("snow: surface dimensions must be positive and finite")

	// ErrInvalidParams indicates simulation parameters outside their valid range.
	ErrInvalidParams = errors.New("snow: invalid parameters")

	// ErrNotActive indicates a release of an index that is not currently handed out.
	ErrNotActive = errors.New("snow: particle is not active")
)
