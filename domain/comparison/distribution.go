package comparison

import (
	"math"
	"sort"
	"strconv"

	"valuerank/domain/analysis"
)

// ECDF is an empirical cumulative distribution function: the proportion of
// a sample's observations <= x.
type ECDF func(x float64) float64

// BuildECDF constructs the step-function ECDF for a sample. The function is
// non-decreasing, 0 below the sample minimum and 1 at or above the maximum.
// An empty sample yields the constant-zero function.
func BuildECDF(data []float64) ECDF {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	return func(x float64) float64 {
		if len(sorted) == 0 {
			return 0
		}
		// Count of observations <= x
		idx := sort.Search(len(sorted), func(i int) bool { return sorted[i] > x })
		return float64(idx) / n
	}
}

// KSFromSamples computes the Kolmogorov-Smirnov statistic between two raw
// samples: the maximum absolute gap between their ECDFs.
//
// Only the union of observed values needs checking: ECDFs are step functions
// constant between consecutive observed points, so the extremum always
// occurs at an observed value.
func KSFromSamples(sample1, sample2 []float64) KSResult {
	return ksCompare(sample1, sample2, len(sample1), len(sample2))
}

// KSFromCounts compares two decision histograms by expanding each value by
// its count and applying the same core statistic. Reported sample sizes are
// the histogram totals. Non-numeric decision codes are skipped.
func KSFromCounts(dist1, dist2 analysis.DecisionDistribution) KSResult {
	sample1, n1 := expandCounts(dist1)
	sample2, n2 := expandCounts(dist2)
	return ksCompare(sample1, sample2, n1, n2)
}

// ksCompare is the single core implementation both entry points converge on.
func ksCompare(sample1, sample2 []float64, n1, n2 int) KSResult {
	if len(sample1) == 0 && len(sample2) == 0 {
		return KSResult{Statistic: 0, Interpretation: KSIdentical, N1: n1, N2: n2}
	}
	if len(sample1) == 0 || len(sample2) == 0 {
		return KSResult{Statistic: 1, Interpretation: KSVeryDifferent, N1: n1, N2: n2}
	}

	ecdf1 := BuildECDF(sample1)
	ecdf2 := BuildECDF(sample2)

	statistic := 0.0
	for _, x := range unionValues(sample1, sample2) {
		diff := math.Abs(ecdf1(x) - ecdf2(x))
		if diff > statistic {
			statistic = diff
		}
	}

	return KSResult{
		Statistic:      statistic,
		Interpretation: InterpretKS(statistic),
		N1:             n1,
		N2:             n2,
	}
}

// InterpretKS classifies a KS statistic. Cut points are exact: a statistic
// of 0.1 is similar, not identical.
func InterpretKS(statistic float64) KSInterpretation {
	switch {
	case statistic < KSIdenticalMax:
		return KSIdentical
	case statistic < KSSimilarMax:
		return KSSimilar
	case statistic < KSDifferentMax:
		return KSDifferent
	default:
		return KSVeryDifferent
	}
}

// unionValues returns the sorted distinct values appearing in either sample.
func unionValues(sample1, sample2 []float64) []float64 {
	seen := make(map[float64]bool, len(sample1)+len(sample2))
	for _, v := range sample1 {
		seen[v] = true
	}
	for _, v := range sample2 {
		seen[v] = true
	}

	union := make([]float64, 0, len(seen))
	for v := range seen {
		union = append(union, v)
	}
	sort.Float64s(union)
	return union
}

// expandCounts converts a value->count histogram into a flat sample and
// reports the total count it represents.
func expandCounts(dist analysis.DecisionDistribution) ([]float64, int) {
	codes := make([]string, 0, len(dist))
	for code := range dist {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	sample := make([]float64, 0)
	total := 0
	for _, code := range codes {
		value, err := strconv.ParseFloat(code, 64)
		if err != nil {
			continue
		}
		count := dist[code]
		for i := 0; i < count; i++ {
			sample = append(sample, value)
		}
		total += count
	}
	return sample, total
}
