package perf

import (
	"math"
	"math/cmplx"

	"github.com/guptarohit/asciigraph"
	"github.com/mjibson/go-dsp/fft"
)

// Chart plots fps history. It returns "" when there is nothing to plot.
func Chart(history []float64, width, height int, caption string) string {
	if len(history) == 0 {
		return ""
	}
	return asciigraph.Plot(history,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// JitterSpectrum returns the magnitude spectrum of frame intervals around
// their mean, up to the Nyquist bin. A steady frame rate is flat and near zero.
func JitterSpectrum(intervals []float64) []float64 {
	if len(intervals) < 4 {
		return nil
	}
	mean := 0.0
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))

	centered := make([]float64, len(intervals))
	for i, v := range intervals {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	mags := make([]float64, len(bins)/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(bins[i]) / float64(len(intervals))
	}
	return mags
}

// DominantPeriod is the period, in frames, of the strongest non-DC component
// of a spectrum computed from n intervals. It returns 0 if there is none.
func DominantPeriod(mags []float64, n int) float64 {
	best, bestIdx := 0.0, 0
	for i := 1; i < len(mags); i++ {
		if mags[i] > best {
			best, bestIdx = mags[i], i
		}
	}
	if bestIdx == 0 || best < 1e-9 {
		return 0
	}
	return math.Round(float64(n)/float64(bestIdx)*100) / 100
}
