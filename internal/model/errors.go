package model

import "errors"

var (
	// ErrInvalidParameter is returned for out-of-range battery or step parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMalformedSeries is returned for empty, unordered, gapped or non-finite input series.
	ErrMalformedSeries = errors.New("malformed series")
)
