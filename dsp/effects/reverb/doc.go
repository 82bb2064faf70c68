// Package reverb provides the Schroeder reverb used to emulate and calibrate
// the hardware unit.
//
// A [Topology] describes parallel feedback combs followed by serial all-pass
// diffusers and a wet/dry mix. [Schroeder] renders it sample by sample and
// [Render] processes a whole [signal.Signal], optionally applying a clip guard.
package reverb
