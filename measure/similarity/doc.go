// Package similarity compares a reconstruction with the recording it
// imitates.
//
//   - MSE: mean squared error, the calibration objective
//   - SNR: reference energy over error energy in dB
//   - LogSpectralDistance: frame-averaged RMS difference of log power spectra
//
// All functions take the reference first and require equal lengths; use
// [Align] to truncate two buffers to their common prefix.
package similarity
