package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns |X[k]| for k in [0, n/2).
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of data sampled every dt seconds. The mean is removed first.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 || dt <= 0 {
		return 0, ErrTooShort
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	maxIdx, maxPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxIdx, maxPower = i, ps[i]
		}
	}
	return float64(maxIdx) / (float64(len(data)) * dt), nil
}

// Resample linearly interpolates (times, values) onto a uniform grid with
// spacing dt starting at times[0].
func Resample(times, values []float64, dt float64) []float64 {
	if len(times) == 0 || len(times) != len(values) || dt <= 0 {
		return nil
	}

	end := times[len(times)-1]
	n := int(math.Floor((end-times[0])/dt+1e-9)) + 1
	out := make([]float64, n)
	j := 0
	for i := range out {
		t := times[0] + float64(i)*dt
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		if j == len(times)-1 || times[j+1] == times[j] {
			out[i] = values[j]
			continue
		}
		frac := (t - times[j]) / (times[j+1] - times[j])
		if frac > 1 {
			frac = 1
		}
		out[i] = values[j] + frac*(values[j+1]-values[j])
	}
	return out
}
