// Package calibrate fits the comb feedback gains of a Schroeder reverb so that
// rendering a dry reference reproduces a recorded target.
//
// The search is a derivative-free Nelder-Mead minimization of the mean squared
// error over a leading excerpt of both signals. Delay lengths and all-pass
// parameters are fixed by the topology; only comb gains are varied.
// Infeasible gains are scored with a large penalty instead of failing.
package calibrate
