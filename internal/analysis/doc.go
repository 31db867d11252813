// Package analysis provides frequency analysis of marble trajectories.
//
//   - [PowerSpectrum]: magnitude spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency in a series
//
// Trajectories from the run store are sampled at sensor timestamps, so
// callers resample with [Resample] before taking a spectrum.
package analysis
