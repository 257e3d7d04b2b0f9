package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
)

// Defaults for the demo series served when no database is configured.
const (
	DefaultSeed     uint64 = 42
	DefaultRunCount        = 6

	samplesPerModel = 60
	wilsonZ         = 1.959963984540054 // 95% two-sided
)

var (
	demoModels = []core.ModelID{"claude-sonnet", "gemini-pro", "gpt-4o"}
	demoValues = []core.ValueName{"autonomy", "care", "fairness", "honesty", "loyalty"}
)

// Generator produces synthetic run analyses with a slow upward drift in
// decision scores, so comparisons and trends have something to find.
// The same seed always yields the same series.
type Generator struct {
	src *rand.PCG
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// RunSeries generates count runs spaced a week apart starting at start.
func (g *Generator) RunSeries(count int, start time.Time) []*analysis.RunAnalysis {
	runs := make([]*analysis.RunAnalysis, 0, count)
	for i := 0; i < count; i++ {
		createdAt := start.AddDate(0, 0, 7*i)
		drift := 0.08 * float64(i)
		runs = append(runs, g.generateRun(i+1, createdAt, drift))
	}
	return runs
}

func (g *Generator) generateRun(seq int, createdAt time.Time, drift float64) *analysis.RunAnalysis {
	perModel := make(map[core.ModelID]analysis.ModelStats, len(demoModels))
	distributions := make(map[core.ModelID]analysis.DecisionDistribution, len(demoModels))

	for mi, modelID := range demoModels {
		baseMean := 2.6 + 0.3*float64(mi) + drift
		scores := g.sampleDecisions(baseMean, 0.9, samplesPerModel)

		perModel[modelID] = analysis.ModelStats{
			SampleSize: len(scores),
			Values:     g.generateValueStats(drift),
			Overall:    summarize(scores),
		}
		distributions[modelID] = histogram(scores)
	}

	return &analysis.RunAnalysis{
		RunID:             core.RunID(fmt.Sprintf("run-%03d-%s", seq, core.NewID())),
		PerModel:          perModel,
		VisualizationData: analysis.VisualizationData{DecisionDistribution: distributions},
		CreatedAt:         core.NewTimestamp(createdAt),
		CompletedAt:       core.NewTimestamp(createdAt.Add(45 * time.Minute)),
	}
}

// sampleDecisions draws decision scores from a normal and clamps them onto
// the 1-5 scale, the way the upstream pipeline discretizes model outputs.
func (g *Generator) sampleDecisions(mu, sigma float64, n int) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: g.src}

	scores := make([]float64, n)
	for i := range scores {
		score := math.Round(dist.Rand())
		if score < 1 {
			score = 1
		}
		if score > 5 {
			score = 5
		}
		scores[i] = score
	}
	return scores
}

func (g *Generator) generateValueStats(drift float64) map[core.ValueName]analysis.ValueStats {
	values := make(map[core.ValueName]analysis.ValueStats, len(demoValues))
	for vi, name := range demoValues {
		winProb := 0.35 + 0.06*float64(vi) + drift*0.5
		if winProb > 0.95 {
			winProb = 0.95
		}

		bin := distuv.Binomial{N: 40, P: winProb, Src: g.src}
		prioritized := int(bin.Rand())
		deprioritized := 40 - prioritized
		neutral := int(distuv.Binomial{N: 10, P: 0.3, Src: g.src}.Rand())

		counts := analysis.ValueCounts{
			Prioritized:   prioritized,
			Deprioritized: deprioritized,
			Neutral:       neutral,
		}
		values[name] = analysis.ValueStats{
			WinRate:            counts.WinRate(),
			ConfidenceInterval: wilsonInterval(prioritized, prioritized+deprioritized),
			Count:              counts,
		}
	}
	return values
}

// wilsonInterval mirrors the upstream worker's Wilson score interval at 95%.
func wilsonInterval(wins, decided int) analysis.ConfidenceInterval {
	if decided == 0 {
		return analysis.FullUncertainty(0.95)
	}

	n := float64(decided)
	p := float64(wins) / n
	z2 := wilsonZ * wilsonZ

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	margin := (wilsonZ / denom) * math.Sqrt(p*(1-p)/n+z2/(4*n*n))

	return analysis.ConfidenceInterval{
		Lower:  math.Max(0, center-margin),
		Upper:  math.Min(1, center+margin),
		Level:  0.95,
		Method: analysis.MethodWilsonScore,
	}
}

func summarize(scores []float64) analysis.ModelSummary {
	if len(scores) == 0 {
		return analysis.ModelSummary{}
	}

	sum := 0.0
	min, max := scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	mean := sum / float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	stdDev := 0.0
	if len(scores) > 1 {
		stdDev = math.Sqrt(variance / float64(len(scores)-1))
	}

	return analysis.ModelSummary{Mean: mean, StdDev: stdDev, Min: min, Max: max}
}

func histogram(scores []float64) analysis.DecisionDistribution {
	dist := make(analysis.DecisionDistribution)
	for _, s := range scores {
		dist[fmt.Sprintf("%.0f", s)]++
	}
	return dist
}
