// Package analysis inspects recorded frame series.
//
// The main use is characterising how the cloth responds to the periodic
// wind: [DominantFrequency] finds the strongest oscillation in a series
// such as the bottom-row sway, which for a settled cloth should track the
// wind frequency.
//
//	sway, _ := storage.Column(frames, "sway")
//	f, err := analysis.DominantFrequency(sway, 60)
//
// [Summarize] reduces a series to min/max/mean/RMS for the analyze command.
package analysis
