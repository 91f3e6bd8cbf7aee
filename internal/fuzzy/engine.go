package fuzzy

import (
	"log"
	"math"
)

// Safe defaults returned when the aggregated output degenerates (no rule
// fired with nonzero strength) or an unexpected fault occurs mid-call.
const (
	FallbackDuration  = 15.0
	FallbackFrequency = 2.0
)

// Plant adjustment bounds. Factors outside this band are clamped, never
// rejected.
const (
	MinPlantAdjustment = 0.3
	MaxPlantAdjustment = 1.5
)

// Input is one crisp observation plus the plant-specific adjustment factor.
// The engine does not validate ranges; readings outside a domain saturate at
// the fuzzy-set boundaries.
type Input struct {
	Temperature     float64 `json:"temperature"`
	SoilHumidity    float64 `json:"soil_humidity"`
	RainProbability float64 `json:"rain_probability"`
	AirHumidity     float64 `json:"air_humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	PlantAdjustment float64 `json:"plant_adjustment"`
}

// Output is a complete, well-formed inference result. Duration is minutes in
// [0,60], Frequency is irrigations/day in [0.5,4]. Activations carries the
// firing strength of every rule (empty only on the degenerate fallback).
type Output struct {
	Duration    float64            `json:"duration_min"`
	Frequency   float64            `json:"frequency_per_day"`
	Activations map[string]float64 `json:"activations"`
	Confidence  float64            `json:"confidence"`
}

// Engine is the Mamdani inference engine: immutable registry and rule base,
// a pluggable confidence strategy and a bounded result cache. Inference
// itself is a pure function of its inputs; the cache is the only shared
// mutable state and carries its own lock, so an Engine is safe for
// concurrent callers.
type Engine struct {
	reg        *Registry
	rules      []Rule
	confidence ConfidenceStrategy
	cache      *resultCache
}

// Option configures an Engine at build time.
type Option func(*Engine)

// WithConfidenceStrategy selects the confidence policy (default
// SimpleConfidence, see DESIGN.md for the rationale).
func WithConfidenceStrategy(s ConfidenceStrategy) Option {
	return func(e *Engine) { e.confidence = s }
}

// WithCacheCapacity overrides the result cache size (default 100 entries).
func WithCacheCapacity(n int) Option {
	return func(e *Engine) { e.cache = newResultCache(n) }
}

// New builds the engine: registry shapes, rule validation, defaults. Any
// malformed set or rule is a configuration error reported here, never at
// request time.
func New(opts ...Option) (*Engine, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	if err := validateRules(reg, ruleBase); err != nil {
		return nil, err
	}
	e := &Engine{
		reg:        reg,
		rules:      ruleBase,
		confidence: SimpleConfidence{},
		cache:      newResultCache(defaultCacheCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules exposes the immutable rule base (for explainability surfaces).
func (e *Engine) Rules() []Rule { return e.rules }

// ConfidencePolicy names the active confidence strategy.
func (e *Engine) ConfidencePolicy() string { return e.confidence.Name() }

// CalculateIrrigation runs the full pipeline for one observation: cache
// lookup, fuzzification, rule firing, aggregation, centroid defuzzification,
// plant adjustment and confidence scoring. It never fails: degenerate
// aggregation and unexpected faults both collapse into the documented safe
// defaults with zero confidence.
func (e *Engine) CalculateIrrigation(temperature, soilHumidity, rainProbability, airHumidity, windSpeed, plantAdjustment float64) (out Output) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fuzzy: inference fault recovered: %v", r)
			out = fallbackOutput()
		}
	}()

	key := quantizeKey(temperature, soilHumidity, rainProbability, airHumidity, windSpeed, plantAdjustment)
	if cached, ok := e.cache.get(key); ok {
		return cached
	}

	rawDur, rawFreq, activations, ok := e.infer(temperature, soilHumidity, rainProbability, airHumidity, windSpeed)
	if !ok {
		out = fallbackOutput()
		e.cache.put(key, out)
		return out
	}

	adj := clamp(plantAdjustment, MinPlantAdjustment, MaxPlantAdjustment)
	duration := round2(clamp(rawDur*adj, 0, 60))
	frequency := round2(clamp(rawFreq*(0.85+0.3*adj), 0.5, 4))

	out = Output{
		Duration:    duration,
		Frequency:   frequency,
		Activations: activations,
		Confidence:  e.confidence.Score(activations),
	}
	e.cache.put(key, out)
	return out
}

// RuleActivations returns the firing strength of every rule for the given
// readings. It shares the firing code with CalculateIrrigation, so the two
// are numerically identical for the same inputs.
func (e *Engine) RuleActivations(temperature, soilHumidity, rainProbability, airHumidity, windSpeed float64) map[string]float64 {
	degrees := e.fuzzify(temperature, soilHumidity, rainProbability, airHumidity, windSpeed)
	return e.fire(degrees)
}

// fuzzify computes the membership of each antecedent variable in every one
// of its labels at the crisp reading.
func (e *Engine) fuzzify(temperature, soilHumidity, rainProbability, airHumidity, windSpeed float64) map[string]map[string]float64 {
	crisp := map[string]float64{
		VarTemperature:     temperature,
		VarSoilHumidity:    soilHumidity,
		VarRainProbability: rainProbability,
		VarAirHumidity:     airHumidity,
		VarWindSpeed:       windSpeed,
	}
	degrees := make(map[string]map[string]float64, len(crisp))
	for name, x := range crisp {
		v, _ := e.reg.Variable(name)
		byLabel := make(map[string]float64, len(v.order))
		for _, label := range v.order {
			byLabel[label] = v.Membership(label, x)
		}
		degrees[name] = byLabel
	}
	return degrees
}

// fire computes each rule's firing strength: the minimum of its antecedent
// memberships.
func (e *Engine) fire(degrees map[string]map[string]float64) map[string]float64 {
	activations := make(map[string]float64, len(e.rules))
	for _, r := range e.rules {
		strength := 1.0
		for _, c := range r.When {
			if mu := degrees[c.Variable][c.Label]; mu < strength {
				strength = mu
			}
		}
		activations[r.ID] = strength
	}
	return activations
}

// infer runs fuzzification, firing, clipping, aggregation and centroid
// defuzzification. ok is false when either consequent's aggregated curve
// sums to ~zero; callers substitute the safe defaults.
func (e *Engine) infer(temperature, soilHumidity, rainProbability, airHumidity, windSpeed float64) (duration, frequency float64, activations map[string]float64, ok bool) {
	degrees := e.fuzzify(temperature, soilHumidity, rainProbability, airHumidity, windSpeed)
	activations = e.fire(degrees)

	durVar, _ := e.reg.Variable(VarDuration)
	freqVar, _ := e.reg.Variable(VarFrequency)
	aggDur := make([]float64, len(durVar.Universe))
	aggFreq := make([]float64, len(freqVar.Universe))

	// implication (pointwise min against the consequent set) folded into the
	// pointwise-max aggregation, one flat pass over the rule base
	for _, r := range e.rules {
		strength := activations[r.ID]
		if strength <= 0 {
			continue
		}
		for _, c := range r.Then {
			switch c.Variable {
			case VarDuration:
				curve, _ := durVar.curveOf(c.Label)
				accumulateClipped(aggDur, curve, strength)
			case VarFrequency:
				curve, _ := freqVar.curveOf(c.Label)
				accumulateClipped(aggFreq, curve, strength)
			}
		}
	}

	duration, okDur := centroid(durVar.Universe, aggDur)
	frequency, okFreq := centroid(freqVar.Universe, aggFreq)
	if !okDur || !okFreq {
		return 0, 0, nil, false
	}
	return duration, frequency, activations, true
}

// accumulateClipped merges one rule contribution into the aggregate:
// agg[i] = max(agg[i], min(strength, set[i])).
func accumulateClipped(agg, curve []float64, strength float64) {
	for i, mu := range curve {
		clipped := mu
		if strength < clipped {
			clipped = strength
		}
		if clipped > agg[i] {
			agg[i] = clipped
		}
	}
}

func fallbackOutput() Output {
	return Output{
		Duration:    FallbackDuration,
		Frequency:   FallbackFrequency,
		Activations: map[string]float64{},
		Confidence:  0,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
