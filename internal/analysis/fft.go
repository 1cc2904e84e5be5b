package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns the magnitude of the one-sided spectrum of data after
// removing its mean and applying a Hann window. Bin k corresponds to
// k*rate/len(data) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	x := make([]float64, len(data))
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Frequencies returns the bin centre frequencies matching PowerSpectrum for
// n samples taken at rate Hz.
func Frequencies(n int, rate float64) []float64 {
	if n < 2 {
		return nil
	}
	out := make([]float64, n/2+1)
	for i := range out {
		out[i] = float64(i) * rate / float64(n)
	}
	return out
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin.
func DominantFrequency(data []float64, rate float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrShortSeries
	}
	ps := PowerSpectrum(data)
	best, bestP := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestP {
			best, bestP = i, ps[i]
		}
	}
	if best == 0 {
		return 0, nil
	}
	return float64(best) * rate / float64(len(data)), nil
}

type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	RMS  float64 `json:"rms"`
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	sq := 0.0
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
		sq += v * v
	}
	n := float64(len(data))
	s.Mean /= n
	s.RMS = math.Sqrt(sq / n)
	return s
}
