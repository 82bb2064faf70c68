// Package interp provides fractional-position reads used by delay-based DSP
// blocks.
//
//   - [Linear2]: 2-point linear interpolation between neighbours
//   - [ReadLinear]: linear read at a real-valued index of a whole buffer,
//     returning 0 outside the valid range
package interp
