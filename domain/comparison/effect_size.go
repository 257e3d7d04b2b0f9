package comparison

import (
	"math"

	"github.com/montanaflynn/stats"
)

// CohensD computes the standardized mean difference between two groups from
// their summary statistics, using the pooled standard deviation.
//
// Degenerate inputs resolve to well-defined "no signal" values rather than
// errors: either group with n < 2 yields d=0/negligible/none, and a zero
// pooled standard deviation with unequal means yields a signed infinite d
// interpreted as large.
func CohensD(mean1, stdDev1 float64, n1 int, mean2, stdDev2 float64, n2 int) CohensDResult {
	if n1 < 2 || n2 < 2 {
		return CohensDResult{D: 0, AbsD: 0, Interpretation: EffectNegligible, Direction: DirectionNone}
	}

	f1 := float64(n1)
	f2 := float64(n2)
	pooledVariance := ((f1-1)*stdDev1*stdDev1 + (f2-1)*stdDev2*stdDev2) / (f1 + f2 - 2)
	pooledStd := math.Sqrt(pooledVariance)

	if pooledStd == 0 {
		if mean1 == mean2 {
			return CohensDResult{D: 0, AbsD: 0, Interpretation: EffectNegligible, Direction: DirectionNone}
		}
		// Degenerate but clearly different: both groups are constant at
		// different levels. Report a signed infinity instead of dividing by
		// zero silently.
		d := math.Inf(1)
		direction := DirectionPositive
		if mean1 < mean2 {
			d = math.Inf(-1)
			direction = DirectionNegative
		}
		return CohensDResult{D: d, AbsD: math.Inf(1), Interpretation: EffectLarge, Direction: direction}
	}

	d := (mean1 - mean2) / pooledStd
	absD := math.Abs(d)

	direction := DirectionNone
	if absD >= EffectDirectionEpsilon {
		if d > 0 {
			direction = DirectionPositive
		} else {
			direction = DirectionNegative
		}
	}

	return CohensDResult{
		D:              d,
		AbsD:           absD,
		Interpretation: InterpretEffectSize(absD),
		Direction:      direction,
	}
}

// CohensDFromSamples derives (mean, stdDev, n) for two raw samples using the
// sample (n-1 denominator) standard deviation, then delegates to CohensD.
func CohensDFromSamples(sample1, sample2 []float64) CohensDResult {
	if len(sample1) < 2 || len(sample2) < 2 {
		return CohensDResult{D: 0, AbsD: 0, Interpretation: EffectNegligible, Direction: DirectionNone}
	}

	mean1, _ := stats.Mean(sample1)
	mean2, _ := stats.Mean(sample2)
	sd1, _ := stats.StandardDeviationSample(sample1)
	sd2, _ := stats.StandardDeviationSample(sample2)

	return CohensD(mean1, sd1, len(sample1), mean2, sd2, len(sample2))
}

// InterpretEffectSize maps |d| onto the standard Cohen buckets. Cut points
// are exact: |d| of 0.2 is small, not negligible.
func InterpretEffectSize(absD float64) EffectInterpretation {
	switch {
	case absD < EffectNegligibleMax:
		return EffectNegligible
	case absD < EffectSmallMax:
		return EffectSmall
	case absD < EffectMediumMax:
		return EffectMedium
	default:
		return EffectLarge
	}
}
