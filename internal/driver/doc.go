// Package driver runs the calibration workflow over a set of recorded effects:
// fit the reverb comb gains against each recording, render a full-length
// reconstruction, score it and write it to disk.
//
// Effects run concurrently up to Config.Workers. A failing effect yields an
// Outcome carrying an *EffectError and never stops the others.
package driver
