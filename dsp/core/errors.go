package core

import "errors"

// ErrInvalidConfig marks invalid construction parameters: delay lengths below
// one sample, feedback gains outside the stable range, mismatched per-stage
// parameter slices and empty topologies. Constructors wrap it with %w so callers
// can test for it with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")
