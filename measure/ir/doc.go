// Package ir measures the decay of rendered reverb impulse responses.
//
// Decay times are derived from the Schroeder backward integration of the
// squared impulse response:
//
//   - RT60: Reverberation time (time for -60 dB decay), from T30 or T20
//   - EDT: Early Decay Time (extrapolated from 0 to -10 dB)
//   - T20, T30: Reverberation time from -5 to -25 dB and -5 to -35 dB
//
// [CombRT60] gives the closed-form decay time of a single feedback comb, which
// is how fitted comb gains are reported as decay times.
//
// # Usage
//
//	analyzer := ir.NewAnalyzer(44100)
//	decay, err := analyzer.Analyze(impulseResponse)
//	fmt.Printf("RT60 = %.2f s\n", decay.RT60)
package ir
