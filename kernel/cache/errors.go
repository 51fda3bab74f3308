package cache

import "errors"

var (
	// ErrCacheTooSmall indicates the MB budget cannot hold even one row
	// given the row width n — a configuration error, fails fast (spec §4.1/§7).
	ErrCacheTooSmall = errors.New("cache: budget too small for row width")

	// ErrInvalidRowWidth indicates n <= 0 was passed to New.
	ErrInvalidRowWidth = errors.New("cache: row width must be positive")
)
