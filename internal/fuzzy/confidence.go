package fuzzy

import "math"

// ConfidenceStrategy scores how certain a decision is from the rule
// activation map. Two incompatible formulas shipped in the system's history;
// both are kept as named policies and the engine takes one explicitly
// (default SimpleConfidence). Scores are always in [0,1].
type ConfidenceStrategy interface {
	Name() string
	Score(activations map[string]float64) float64
}

// SimpleConfidence weighs the strongest activation against the share of
// strong rules: 0.6·max + 0.4·(|{v > 0.5}| / N), rounded to 2 decimals.
type SimpleConfidence struct{}

func (SimpleConfidence) Name() string { return "simple" }

func (SimpleConfidence) Score(activations map[string]float64) float64 {
	if len(activations) == 0 {
		return 0
	}
	var maxAct float64
	strong := 0
	for _, v := range activations {
		if v > maxAct {
			maxAct = v
		}
		if v > 0.5 {
			strong++
		}
	}
	share := float64(strong) / float64(len(activations))
	return round2(0.6*maxAct + 0.4*share)
}

// PeakWeightedConfidence blends the exponentiated peak and mean activations:
// wMax·max^α + (1−wMax)·mean^α, with a ×1.15 consensus bonus when at least
// 3 activations exceed 0.3, capped at 1.
type PeakWeightedConfidence struct {
	WMax  float64
	Alpha float64
}

// NewPeakWeightedConfidence returns the policy with its historical defaults
// (wMax=0.7, α=0.85).
func NewPeakWeightedConfidence() PeakWeightedConfidence {
	return PeakWeightedConfidence{WMax: 0.7, Alpha: 0.85}
}

func (PeakWeightedConfidence) Name() string { return "peak-weighted" }

func (p PeakWeightedConfidence) Score(activations map[string]float64) float64 {
	if len(activations) == 0 {
		return 0
	}
	var maxAct, sum float64
	consensus := 0
	for _, v := range activations {
		if v > maxAct {
			maxAct = v
		}
		sum += v
		if v > 0.3 {
			consensus++
		}
	}
	mean := sum / float64(len(activations))
	score := p.WMax*math.Pow(maxAct, p.Alpha) + (1-p.WMax)*math.Pow(mean, p.Alpha)
	if consensus >= 3 {
		score *= 1.15
	}
	if score > 1 {
		score = 1
	}
	return round2(score)
}
