package comparison

import (
	"math"
	"testing"
)

func TestCohensD_Symmetry(t *testing.T) {
	a := CohensD(3.2, 1.1, 40, 2.7, 0.9, 35)
	b := CohensD(2.7, 0.9, 35, 3.2, 1.1, 40)

	if a.D != -b.D {
		t.Errorf("Expected antisymmetric d, got %f and %f", a.D, b.D)
	}
	if a.AbsD != b.AbsD {
		t.Errorf("Expected equal |d|, got %f and %f", a.AbsD, b.AbsD)
	}
	if a.Interpretation != b.Interpretation {
		t.Errorf("Expected equal interpretation, got %s and %s", a.Interpretation, b.Interpretation)
	}
}

func TestCohensD_Identity(t *testing.T) {
	for _, n := range []int{2, 5, 50, 500} {
		result := CohensD(3.0, 0.8, n, 3.0, 0.8, n)
		if result.D != 0 {
			t.Errorf("n=%d: expected d=0 for identical groups, got %f", n, result.D)
		}
		if result.Interpretation != EffectNegligible {
			t.Errorf("n=%d: expected negligible, got %s", n, result.Interpretation)
		}
		if result.Direction != DirectionNone {
			t.Errorf("n=%d: expected no direction, got %s", n, result.Direction)
		}
	}
}

func TestCohensD_InsufficientData(t *testing.T) {
	cases := []struct {
		name   string
		n1, n2 int
	}{
		{"singleton first group", 1, 50},
		{"singleton second group", 50, 1},
		{"empty first group", 0, 50},
		{"both singletons", 1, 1},
	}

	for _, tc := range cases {
		result := CohensD(1.0, 0.5, tc.n1, 4.0, 0.5, tc.n2)
		if result.D != 0 || result.Interpretation != EffectNegligible || result.Direction != DirectionNone {
			t.Errorf("%s: expected zero/negligible/none, got %+v", tc.name, result)
		}
	}
}

func TestCohensD_ZeroPooledStd(t *testing.T) {
	// Equal constant groups: no signal
	equal := CohensD(3.0, 0, 10, 3.0, 0, 10)
	if equal.D != 0 || equal.Interpretation != EffectNegligible || equal.Direction != DirectionNone {
		t.Errorf("Equal constant groups: expected zero result, got %+v", equal)
	}

	// Constant groups at different levels: signed infinity, large
	higher := CohensD(4.0, 0, 10, 3.0, 0, 10)
	if !math.IsInf(higher.D, 1) {
		t.Errorf("Expected +Inf d, got %f", higher.D)
	}
	if higher.Interpretation != EffectLarge || higher.Direction != DirectionPositive {
		t.Errorf("Expected large/positive, got %s/%s", higher.Interpretation, higher.Direction)
	}

	lower := CohensD(3.0, 0, 10, 4.0, 0, 10)
	if !math.IsInf(lower.D, -1) {
		t.Errorf("Expected -Inf d, got %f", lower.D)
	}
	if lower.Interpretation != EffectLarge || lower.Direction != DirectionNegative {
		t.Errorf("Expected large/negative, got %s/%s", lower.Interpretation, lower.Direction)
	}
}

func TestCohensD_PooledComputation(t *testing.T) {
	// Run A: mean=3.0, sd=1.0, n=50; Run B: mean=3.5, sd=0.9, n=50.
	// Pooled variance = (49*1.0 + 49*0.81) / 98 = 0.905, pooled sd = 0.9513.
	result := CohensD(3.0, 1.0, 50, 3.5, 0.9, 50)

	expected := (3.0 - 3.5) / math.Sqrt((49*1.0+49*0.81)/98)
	if math.Abs(result.D-expected) > 1e-12 {
		t.Errorf("Expected d=%f, got %f", expected, result.D)
	}
	if math.Abs(result.D-(-0.5256)) > 0.001 {
		t.Errorf("Expected d around -0.526, got %f", result.D)
	}
	if result.Interpretation != EffectMedium {
		t.Errorf("Expected medium, got %s", result.Interpretation)
	}
	if result.Direction != DirectionNegative {
		t.Errorf("Expected negative, got %s", result.Direction)
	}
}

func TestCohensD_DirectionEpsilon(t *testing.T) {
	// |d| below 0.01 reports no direction even though d is nonzero
	result := CohensD(3.000, 1.0, 100, 3.005, 1.0, 100)
	if result.AbsD >= EffectDirectionEpsilon {
		t.Fatalf("Test setup wrong: |d|=%f not below epsilon", result.AbsD)
	}
	if result.Direction != DirectionNone {
		t.Errorf("Expected no direction for |d|=%f, got %s", result.AbsD, result.Direction)
	}
}

func TestInterpretEffectSize_Boundaries(t *testing.T) {
	cases := []struct {
		absD     float64
		expected EffectInterpretation
	}{
		{0.0, EffectNegligible},
		{0.1999, EffectNegligible},
		{0.2, EffectSmall}, // exact cut point belongs to the next bucket
		{0.4999, EffectSmall},
		{0.5, EffectMedium},
		{0.7999, EffectMedium},
		{0.8, EffectLarge},
		{2.5, EffectLarge},
		{math.Inf(1), EffectLarge},
	}

	for _, tc := range cases {
		if got := InterpretEffectSize(tc.absD); got != tc.expected {
			t.Errorf("InterpretEffectSize(%v): expected %s, got %s", tc.absD, tc.expected, got)
		}
	}
}

func TestCohensDFromSamples(t *testing.T) {
	// Sample stats use the n-1 denominator before delegating
	sample1 := []float64{1, 2, 3, 4, 5}
	sample2 := []float64{3, 4, 5, 6, 7}

	result := CohensDFromSamples(sample1, sample2)

	// Both samples have sample sd sqrt(2.5); pooled sd is the same.
	expected := (3.0 - 5.0) / math.Sqrt(2.5)
	if math.Abs(result.D-expected) > 1e-12 {
		t.Errorf("Expected d=%f, got %f", expected, result.D)
	}
	if result.Direction != DirectionNegative {
		t.Errorf("Expected negative direction, got %s", result.Direction)
	}
}

func TestCohensDFromSamples_TooSmall(t *testing.T) {
	result := CohensDFromSamples([]float64{1.0}, []float64{2, 3, 4})
	if result.D != 0 || result.Interpretation != EffectNegligible || result.Direction != DirectionNone {
		t.Errorf("Expected zero result for singleton sample, got %+v", result)
	}
}
