package fuzzy

import "fmt"

// Variable and label names used by the rule base. They double as JSON-facing
// identifiers in activation maps and explanations.
const (
	VarTemperature     = "temperature"
	VarSoilHumidity    = "soil_humidity"
	VarRainProbability = "rain_probability"
	VarAirHumidity     = "air_humidity"
	VarWindSpeed       = "wind_speed"
	VarDuration        = "duration"
	VarFrequency       = "frequency"
)

// FuzzySet is one labelled membership curve sampled over its variable's
// universe.
type FuzzySet struct {
	Label string
	curve []float64
}

// LinguisticVariable is a named domain with an ordered collection of fuzzy
// sets. Antecedent variables are fuzzified against it, consequent variables
// are clipped and aggregated over it.
type LinguisticVariable struct {
	Name     string
	Universe []float64
	sets     map[string]*FuzzySet
	order    []string
}

func newVariable(name string, lo, hi float64, points int) *LinguisticVariable {
	return &LinguisticVariable{
		Name:     name,
		Universe: linspace(lo, hi, points),
		sets:     make(map[string]*FuzzySet),
	}
}

func (v *LinguisticVariable) addTrap(label string, a, b, c, d float64) error {
	curve, err := trapezoid(v.Universe, a, b, c, d)
	if err != nil {
		return fmt.Errorf("%s[%s]: %w", v.Name, label, err)
	}
	return v.add(label, curve)
}

func (v *LinguisticVariable) addTri(label string, a, b, c float64) error {
	curve, err := triangle(v.Universe, a, b, c)
	if err != nil {
		return fmt.Errorf("%s[%s]: %w", v.Name, label, err)
	}
	return v.add(label, curve)
}

func (v *LinguisticVariable) add(label string, curve []float64) error {
	if _, dup := v.sets[label]; dup {
		return fmt.Errorf("%s: duplicate set %q", v.Name, label)
	}
	v.sets[label] = &FuzzySet{Label: label, curve: curve}
	v.order = append(v.order, label)
	return nil
}

// Membership evaluates the named set at a crisp value. Unknown labels are a
// configuration error and caught at registry build time, so this returns 0.
func (v *LinguisticVariable) Membership(label string, x float64) float64 {
	s, ok := v.sets[label]
	if !ok {
		return 0
	}
	return interpMembership(v.Universe, s.curve, x)
}

// Labels returns the set labels in declaration order.
func (v *LinguisticVariable) Labels() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

func (v *LinguisticVariable) curveOf(label string) ([]float64, bool) {
	s, ok := v.sets[label]
	if !ok {
		return nil, false
	}
	return s.curve, true
}

// Registry holds the immutable linguistic variables of the system: five
// antecedents and two consequents. Built once, read-only afterwards.
type Registry struct {
	vars map[string]*LinguisticVariable
}

// Membership resolves variable+label and evaluates at x, clamped into [0,1]
// by construction of the curves.
func (r *Registry) Membership(variable, label string, x float64) float64 {
	v, ok := r.vars[variable]
	if !ok {
		return 0
	}
	return v.Membership(label, x)
}

// Variable returns a registered variable by name.
func (r *Registry) Variable(name string) (*LinguisticVariable, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// newRegistry builds the discretized domains and the fixed analytic shapes.
// Adjacent sets overlap on every variable so no in-domain crisp value yields
// all-zero membership. Any malformed shape fails the build.
func newRegistry() (*Registry, error) {
	temp := newVariable(VarTemperature, 0, 50, 501)
	soil := newVariable(VarSoilHumidity, 0, 100, 501)
	rain := newVariable(VarRainProbability, 0, 100, 501)
	air := newVariable(VarAirHumidity, 0, 100, 501)
	wind := newVariable(VarWindSpeed, 0, 50, 501)
	dur := newVariable(VarDuration, 0, 60, 601)
	freq := newVariable(VarFrequency, 0.5, 4, 351)

	steps := []error{
		temp.addTrap("low", 0, 0, 10, 20),
		temp.addTri("medium", 15, 22.5, 30),
		temp.addTrap("high", 25, 30, 50, 50),

		soil.addTrap("dry", 0, 0, 15, 30),
		soil.addTrap("moderate", 20, 35, 45, 60),
		soil.addTrap("wet", 50, 70, 100, 100),

		rain.addTrap("low", 0, 0, 15, 30),
		rain.addTrap("medium", 20, 35, 45, 60),
		rain.addTrap("high", 50, 70, 100, 100),

		air.addTrap("low", 0, 0, 20, 40),
		air.addTrap("medium", 30, 45, 55, 70),
		air.addTrap("high", 60, 80, 100, 100),

		wind.addTrap("low", 0, 0, 8, 15),
		wind.addTrap("medium", 10, 18, 25, 30),
		wind.addTrap("high", 25, 35, 50, 50),

		dur.addTrap("none", 0, 0, 3, 5),
		dur.addTrap("short", 3, 8, 15, 20),
		dur.addTrap("medium", 15, 22, 33, 40),
		dur.addTrap("long", 35, 45, 60, 60),

		freq.addTrap("low", 0.5, 0.75, 1.25, 1.5),
		freq.addTrap("medium", 1.0, 1.5, 2.0, 2.5),
		freq.addTrap("high", 2.0, 2.5, 3.5, 4.0),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	return &Registry{vars: map[string]*LinguisticVariable{
		VarTemperature:     temp,
		VarSoilHumidity:    soil,
		VarRainProbability: rain,
		VarAirHumidity:     air,
		VarWindSpeed:       wind,
		VarDuration:        dur,
		VarFrequency:       freq,
	}}, nil
}
