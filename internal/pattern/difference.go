package pattern

import "math"

// #region difference

// Difference measures how dissimilar two patterns are, in [0, 1].
// It averages the normalized sequence distance, the position distance
// scaled by the 12-slot category space, and the harmony ratio distance.
func Difference(a, b Pattern) float64 {
	seqDist := sequenceDistance(a.Sequence, b.Sequence)
	posDist := clamp01(math.Abs(a.Position-b.Position) / 12.0)
	harmonyDist := clamp01(math.Abs(a.HarmonyRatio - b.HarmonyRatio))
	return (seqDist + posDist + harmonyDist) / 3.0
}

// sequenceDistance is the mean per-element relative difference over the
// shared prefix. An empty sequence compared against a non-empty one is
// maximally distant.
func sequenceDistance(a, b []float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	if len(a) == 0 || len(b) == 0 {
		return 1
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		denom := math.Max(math.Max(math.Abs(a[i]), math.Abs(b[i])), 1)
		sum += math.Abs(a[i]-b[i]) / denom
	}
	return clamp01(sum / float64(n))
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion difference
