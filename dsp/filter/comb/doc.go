// Package comb provides the recursive building blocks of Schroeder-style
// reverberators: the feedback comb filter and the Schroeder all-pass filter.
//
// Both filters run on a single delay line with read-before-write semantics and
// require a feedback gain with |g| < 1. Gains at or beyond that boundary are
// rejected at construction with an error wrapping core.ErrInvalidConfig.
//
// Filters are sequential state machines: samples must be processed in
// increasing index order.
package comb
