package fuzzy

import "fmt"

// Clause names one (variable, label) pair. In an antecedent the clauses are
// AND-ed (minimum); in a consequent each clause is an output assignment.
type Clause struct {
	Variable string
	Label    string
}

// Rule is one immutable knowledge-base entry. Rules carry no behavior: the
// engine evaluates all of them in a uniform loop, so evaluation order never
// matters (aggregation is a pointwise max).
type Rule struct {
	ID   string
	When []Clause
	Then []Clause
}

func when(pairs ...string) []Clause { return toClauses(pairs) }
func then(pairs ...string) []Clause { return toClauses(pairs) }

func toClauses(pairs []string) []Clause {
	cs := make([]Clause, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cs = append(cs, Clause{Variable: pairs[i], Label: pairs[i+1]})
	}
	return cs
}

// ruleBase is the 33-rule knowledge base. Grouping below is conceptual only:
// critical overrides, extreme-dry intensifiers, wet reducers, wind boosters,
// balanced conditions and fine-tuning combinations.
var ruleBase = []Rule{
	// critical overrides
	{ID: "R1", When: when(VarRainProbability, "high"), Then: then(VarDuration, "none")},
	{ID: "R2", When: when(VarSoilHumidity, "wet", VarRainProbability, "high"), Then: then(VarDuration, "none", VarFrequency, "low")},

	// extreme dry conditions
	{ID: "R3", When: when(VarSoilHumidity, "dry", VarRainProbability, "low"), Then: then(VarDuration, "long", VarFrequency, "high")},
	{ID: "R4", When: when(VarTemperature, "high", VarSoilHumidity, "dry"), Then: then(VarDuration, "long")},
	{ID: "R5", When: when(VarAirHumidity, "low", VarSoilHumidity, "dry"), Then: then(VarDuration, "long", VarFrequency, "high")},
	{ID: "R6", When: when(VarSoilHumidity, "dry", VarWindSpeed, "high"), Then: then(VarDuration, "long")},
	{ID: "R7", When: when(VarSoilHumidity, "dry", VarTemperature, "high", VarRainProbability, "low", VarWindSpeed, "high"), Then: then(VarDuration, "long", VarFrequency, "high")},

	// wet conditions reduce irrigation
	{ID: "R8", When: when(VarSoilHumidity, "wet"), Then: then(VarDuration, "short", VarFrequency, "low")},
	{ID: "R9", When: when(VarTemperature, "low", VarAirHumidity, "high"), Then: then(VarDuration, "short")},
	{ID: "R10", When: when(VarSoilHumidity, "moderate", VarRainProbability, "medium"), Then: then(VarDuration, "short")},
	{ID: "R11", When: when(VarAirHumidity, "high", VarRainProbability, "medium"), Then: then(VarDuration, "short")},
	{ID: "R12", When: when(VarTemperature, "low", VarRainProbability, "high"), Then: then(VarDuration, "none")},

	// wind raises evapotranspiration
	{ID: "R13", When: when(VarWindSpeed, "high", VarTemperature, "high"), Then: then(VarFrequency, "high")},
	{ID: "R14", When: when(VarWindSpeed, "high", VarRainProbability, "low"), Then: then(VarFrequency, "high")},
	{ID: "R15", When: when(VarTemperature, "high", VarWindSpeed, "medium"), Then: then(VarFrequency, "high")},
	{ID: "R16", When: when(VarAirHumidity, "low", VarWindSpeed, "high"), Then: then(VarFrequency, "high")},

	// balanced conditions
	{ID: "R17", When: when(VarTemperature, "medium", VarSoilHumidity, "moderate"), Then: then(VarDuration, "medium")},
	{ID: "R18", When: when(VarTemperature, "high", VarAirHumidity, "low", VarWindSpeed, "low"), Then: then(VarDuration, "long")},
	{ID: "R19", When: when(VarSoilHumidity, "moderate", VarWindSpeed, "low"), Then: then(VarFrequency, "medium")},
	{ID: "R20", When: when(VarAirHumidity, "medium", VarRainProbability, "low"), Then: then(VarDuration, "medium")},
	{ID: "R21", When: when(VarTemperature, "medium", VarRainProbability, "low"), Then: then(VarFrequency, "medium")},
	{ID: "R22", When: when(VarWindSpeed, "low", VarRainProbability, "low"), Then: then(VarFrequency, "medium")},
	{ID: "R23", When: when(VarTemperature, "medium", VarAirHumidity, "medium", VarRainProbability, "medium"), Then: then(VarDuration, "medium", VarFrequency, "medium")},

	// fine-tuning combinations
	{ID: "R24", When: when(VarTemperature, "low", VarSoilHumidity, "moderate"), Then: then(VarDuration, "short")},
	{ID: "R25", When: when(VarRainProbability, "medium", VarWindSpeed, "medium"), Then: then(VarFrequency, "medium")},
	{ID: "R26", When: when(VarTemperature, "high", VarRainProbability, "medium", VarWindSpeed, "high"), Then: then(VarDuration, "medium")},
	{ID: "R27", When: when(VarTemperature, "medium", VarAirHumidity, "low", VarSoilHumidity, "dry"), Then: then(VarDuration, "long")},
	{ID: "R28", When: when(VarTemperature, "high", VarAirHumidity, "high"), Then: then(VarFrequency, "medium")},
	{ID: "R29", When: when(VarSoilHumidity, "dry", VarAirHumidity, "low", VarRainProbability, "medium"), Then: then(VarDuration, "medium")},
	{ID: "R30", When: when(VarSoilHumidity, "moderate", VarAirHumidity, "high", VarRainProbability, "low"), Then: then(VarDuration, "medium")},
	{ID: "R31", When: when(VarSoilHumidity, "wet", VarTemperature, "high"), Then: then(VarFrequency, "medium")},
	{ID: "R32", When: when(VarWindSpeed, "high", VarAirHumidity, "low"), Then: then(VarDuration, "medium")},
	{ID: "R33", When: when(VarWindSpeed, "low", VarAirHumidity, "high"), Then: then(VarFrequency, "low")},
}

// RuleCount is the size of the knowledge base.
const RuleCount = 33

// validateRules checks every rule against the registry once at build time:
// non-empty antecedent, known variables and labels, consequents restricted to
// the two output variables. Request-time evaluation relies on this.
func validateRules(reg *Registry, rules []Rule) error {
	if len(rules) != RuleCount {
		return fmt.Errorf("rule base has %d rules, want %d", len(rules), RuleCount)
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return fmt.Errorf("rule with empty id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %s", r.ID)
		}
		seen[r.ID] = true
		if len(r.When) == 0 {
			return fmt.Errorf("%s: empty antecedent", r.ID)
		}
		if len(r.Then) == 0 {
			return fmt.Errorf("%s: empty consequent", r.ID)
		}
		for _, c := range r.When {
			v, ok := reg.Variable(c.Variable)
			if !ok {
				return fmt.Errorf("%s: unknown antecedent variable %q", r.ID, c.Variable)
			}
			if c.Variable == VarDuration || c.Variable == VarFrequency {
				return fmt.Errorf("%s: consequent variable %q used as antecedent", r.ID, c.Variable)
			}
			if _, ok := v.curveOf(c.Label); !ok {
				return fmt.Errorf("%s: unknown label %s[%s]", r.ID, c.Variable, c.Label)
			}
		}
		for _, c := range r.Then {
			if c.Variable != VarDuration && c.Variable != VarFrequency {
				return fmt.Errorf("%s: consequent must assign duration or frequency, got %q", r.ID, c.Variable)
			}
			v, _ := reg.Variable(c.Variable)
			if _, ok := v.curveOf(c.Label); !ok {
				return fmt.Errorf("%s: unknown label %s[%s]", r.ID, c.Variable, c.Label)
			}
		}
	}
	return nil
}
