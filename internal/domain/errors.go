package domain

import "errors"

var (
	// ErrAnalysisFailure is the only error surfaced by a stock analytics run.
	// The underlying cause is logged, never returned.
	ErrAnalysisFailure = errors.New("stock analytics failed")

	ErrInvalidFilter = errors.New("invalid snapshot filter")
)
