// Package modulation provides the LFO-driven effects of the emulated unit.
//
// Included processors:
//   - LFO: Sine phase accumulator wrapped into [0, 2π).
//   - Flanger: Feed-forward modulated fractional delay over a whole buffer.
//   - Tremolo: Stateless amplitude modulation rendered in concurrent chunks.
package modulation
