package fuzzy

import (
	"fmt"
	"sort"
	"strings"
)

// Explainability layer: natural-language summaries built from the exact
// activation map the engine produced. Nothing here recomputes memberships.

// ExplainDecision reports the decision, the top-3 most active rules and
// contextual remarks.
func (e *Engine) ExplainDecision(duration, frequency float64, activations map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duration: %.1f min | Frequency: %.1f irrigations/day\n", duration, frequency)

	b.WriteString("Most active rules: ")
	top := topActivations(activations, 3)
	parts := make([]string, 0, len(top))
	for _, ra := range top {
		if ra.Strength > 0.1 {
			parts = append(parts, fmt.Sprintf("%s (%.2f)", ra.ID, ra.Strength))
		}
	}
	if len(parts) == 0 {
		b.WriteString("none above threshold")
	} else {
		b.WriteString(strings.Join(parts, ", "))
	}

	if duration < 3 {
		b.WriteString("\nNo irrigation needed: conditions are favorable.")
	} else if duration > 45 {
		b.WriteString("\nVery dry conditions: monitor the soil frequently.")
	}
	if frequency >= 3 {
		b.WriteString("\nHigh frequency: split into shorter sessions.")
	}
	return b.String()
}

// ExplainDecisionTraceable renders the full decision trace: the linguistic
// reading of every input, the final outputs, the top-5 applied rules with
// description and impact, a sensitivity note on inputs past hard thresholds,
// and a status classification derived from the outputs alone.
func (e *Engine) ExplainDecisionTraceable(in Input, out Output) string {
	var b strings.Builder
	b.WriteString("DECISION TRACE\n\n")

	b.WriteString("Observed conditions:\n")
	fmt.Fprintf(&b, "- temperature: %.1f C (%s)\n", in.Temperature, interpretValue(VarTemperature, in.Temperature))
	fmt.Fprintf(&b, "- soil humidity: %.1f%% (%s)\n", in.SoilHumidity, interpretValue(VarSoilHumidity, in.SoilHumidity))
	fmt.Fprintf(&b, "- rain probability: %.1f%% (%s)\n", in.RainProbability, interpretValue(VarRainProbability, in.RainProbability))
	fmt.Fprintf(&b, "- air humidity: %.1f%% (%s)\n", in.AirHumidity, interpretValue(VarAirHumidity, in.AirHumidity))
	fmt.Fprintf(&b, "- wind speed: %.1f km/h (%s)\n\n", in.WindSpeed, interpretValue(VarWindSpeed, in.WindSpeed))

	b.WriteString("Decision:\n")
	fmt.Fprintf(&b, "- irrigation duration: %.1f min\n", out.Duration)
	fmt.Fprintf(&b, "- irrigation frequency: %.1f per day\n", out.Frequency)
	fmt.Fprintf(&b, "- estimated consumption: %.0f liters/day\n\n", out.Duration*out.Frequency*5)

	b.WriteString("Applied rules:\n")
	for _, ra := range topActivations(out.Activations, 5) {
		if ra.Strength <= 0.05 {
			continue
		}
		fmt.Fprintf(&b, "%s (activation %.2f)\n", ra.ID, ra.Strength)
		fmt.Fprintf(&b, "  %s\n", ruleDescriptions[ra.ID])
		fmt.Fprintf(&b, "  impact: %s\n", ruleImpacts[ra.ID])
	}
	b.WriteString("\n")

	b.WriteString("Sensitivity:\n")
	b.WriteString(sensitivityNotes(in))
	b.WriteString("\n")

	b.WriteString("Conclusions:\n")
	b.WriteString(conclusions(out.Duration, out.Frequency))
	return b.String()
}

// RuleActivation pairs a rule id with its firing strength, for ranked views.
type RuleActivation struct {
	ID       string
	Strength float64
}

// topActivations returns the n strongest activations, ties broken by rule id
// so the ordering is deterministic.
func topActivations(activations map[string]float64, n int) []RuleActivation {
	ranked := make([]RuleActivation, 0, len(activations))
	for id, v := range activations {
		ranked = append(ranked, RuleActivation{ID: id, Strength: v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Strength != ranked[j].Strength {
			return ranked[i].Strength > ranked[j].Strength
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// interpretValue maps a raw reading onto a coarse linguistic bucket for the
// trace. Thresholds are fixed reporting bands, not the fuzzy sets themselves.
func interpretValue(variable string, value float64) string {
	switch variable {
	case VarTemperature:
		switch {
		case value < 15:
			return "very low"
		case value < 20:
			return "low"
		case value < 25:
			return "moderate"
		case value < 30:
			return "high"
		default:
			return "very high"
		}
	case VarSoilHumidity:
		switch {
		case value < 20:
			return "very dry"
		case value < 35:
			return "dry"
		case value < 50:
			return "moderate"
		case value < 70:
			return "moist"
		default:
			return "very moist"
		}
	case VarRainProbability:
		switch {
		case value < 15:
			return "very low"
		case value < 30:
			return "low"
		case value < 50:
			return "moderate"
		default:
			return "high"
		}
	case VarAirHumidity:
		switch {
		case value < 25:
			return "very dry"
		case value < 40:
			return "dry"
		case value < 60:
			return "moderate"
		default:
			return "humid"
		}
	case VarWindSpeed:
		switch {
		case value < 5:
			return "very low"
		case value < 12:
			return "low"
		case value < 20:
			return "moderate"
		default:
			return "high"
		}
	}
	return fmt.Sprintf("value: %g", value)
}

// sensitivityNotes flags inputs past the hard thresholds that dominate the
// decision.
func sensitivityNotes(in Input) string {
	var b strings.Builder
	if in.SoilHumidity < 30 {
		b.WriteString("- critical variable: soil humidity very low (strongest driver of duration)\n")
	}
	if in.Temperature > 35 {
		b.WriteString("- critical variable: temperature very high (pushes duration up)\n")
	}
	if in.RainProbability > 70 {
		b.WriteString("- critical variable: high rain probability (suppresses duration)\n")
	}
	if in.WindSpeed > 20 {
		b.WriteString("- critical variable: high wind (pushes frequency up)\n")
	}
	if b.Len() == 0 {
		b.WriteString("- stable conditions: no variable past a critical threshold\n")
	}
	return b.String()
}

// conclusions classifies the decision from the output thresholds alone.
func conclusions(duration, frequency float64) string {
	var b strings.Builder
	switch {
	case duration > 40:
		b.WriteString("- status: CRITICAL, irrigation required urgently\n")
	case duration > 25:
		b.WriteString("- status: ALERT, monitor frequently\n")
	case duration < 10:
		b.WriteString("- status: OPTIMAL, minimal irrigation needed\n")
	default:
		b.WriteString("- status: BALANCED, normal irrigation\n")
	}

	efficiency := "high"
	if duration > 35 || frequency > 3 {
		efficiency = "low (review conditions)"
	} else if duration < 15 && frequency < 2 {
		efficiency = "very high"
	}
	fmt.Fprintf(&b, "- estimated efficiency: %s\n", efficiency)

	switch {
	case duration > 30:
		b.WriteString("- recommended action: irrigate immediately\n")
	case duration > 20:
		b.WriteString("- recommended action: prepare the irrigation system\n")
	default:
		b.WriteString("- recommended action: continue normal monitoring\n")
	}
	return b.String()
}

// ruleDescriptions is the static human-readable form of each rule.
var ruleDescriptions = map[string]string{
	"R1":  "if rain probability is HIGH, cut irrigation to near zero",
	"R2":  "if soil is WET and rain probability is HIGH, irrigate minimally",
	"R3":  "if soil is DRY and rain probability is LOW, irrigate intensively",
	"R4":  "if temperature is HIGH and soil is DRY, extend irrigation time",
	"R5":  "if air humidity is LOW and soil is DRY, irrigate intensively",
	"R6":  "if soil is DRY and wind is HIGH, extend irrigation time",
	"R7":  "if soil DRY + temperature HIGH + rain LOW + wind HIGH, maximum irrigation",
	"R8":  "if soil is WET, shorten irrigation time",
	"R9":  "if temperature is LOW and air humidity is HIGH, irrigate briefly",
	"R10": "if soil is MODERATE and rain is MEDIUM, irrigate briefly",
	"R11": "if air humidity is HIGH and rain is MEDIUM, irrigate briefly",
	"R12": "if temperature is LOW and rain is HIGH, no irrigation",
	"R13": "if wind is HIGH and temperature is HIGH, raise frequency",
	"R14": "if wind is HIGH and rain is LOW, raise frequency",
	"R15": "if temperature is HIGH and wind is MEDIUM, raise frequency",
	"R16": "if air humidity is LOW and wind is HIGH, raise frequency",
	"R17": "if temperature is MEDIUM and soil is MODERATE, medium duration",
	"R18": "if temperature HIGH + air humidity LOW + wind LOW, long duration",
	"R19": "if soil is MODERATE and wind is LOW, medium frequency",
	"R20": "if air humidity is MEDIUM and rain is LOW, medium duration",
	"R21": "if temperature is MEDIUM and rain is LOW, medium frequency",
	"R22": "if wind is LOW and rain is LOW, medium frequency",
	"R23": "if temperature MEDIUM + air humidity MEDIUM + rain MEDIUM, medium duration and frequency",
	"R24": "if temperature is LOW and soil is MODERATE, short duration",
	"R25": "if rain is MEDIUM and wind is MEDIUM, medium frequency",
	"R26": "if temperature HIGH + rain MEDIUM + wind HIGH, medium duration",
	"R27": "if temperature MEDIUM + air humidity LOW + soil DRY, long duration",
	"R28": "if temperature is HIGH and air humidity is HIGH, medium frequency",
	"R29": "if soil DRY + air humidity LOW + rain MEDIUM, medium duration",
	"R30": "if soil MODERATE + air humidity HIGH + rain LOW, medium duration",
	"R31": "if soil is WET and temperature is HIGH, medium frequency",
	"R32": "if wind is HIGH and air humidity is LOW, medium duration",
	"R33": "if wind is LOW and air humidity is HIGH, low frequency",
}

// ruleImpacts is the static expected effect of each rule on the decision.
var ruleImpacts = map[string]string{
	"R1":  "reduces irrigation time significantly",
	"R2":  "minimizes irrigation under wet conditions",
	"R3":  "raises irrigation considerably against drought",
	"R4":  "extends time under thermal stress",
	"R5":  "raises irrigation against dry air",
	"R6":  "extends time against wind evaporation",
	"R7":  "maximum irrigation under extreme conditions",
	"R8":  "shortens time on wet soil",
	"R9":  "moderate irrigation in cold conditions",
	"R10": "balanced irrigation at moderate humidity",
	"R11": "short irrigation under humid air",
	"R12": "no irrigation under favorable conditions",
	"R13": "raises frequency for wind and heat",
	"R14": "raises frequency for dry wind",
	"R15": "raises frequency for moderate heat",
	"R16": "raises frequency against atmospheric drought",
	"R17": "balanced irrigation at average conditions",
	"R18": "prolonged irrigation in dry heat",
	"R19": "moderate frequency under stable conditions",
	"R20": "medium irrigation by air humidity",
	"R21": "medium frequency at moderate temperature",
	"R22": "medium frequency under stable conditions",
	"R23": "fully balanced irrigation",
	"R24": "short irrigation in cold conditions",
	"R25": "medium frequency with moderate rain",
	"R26": "medium irrigation in heat with rain",
	"R27": "long irrigation under moderate drought",
	"R28": "medium frequency in humid heat",
	"R29": "medium irrigation on dry soil with rain",
	"R30": "medium irrigation on moderate soil",
	"R31": "medium frequency on wet warm soil",
	"R32": "medium irrigation in dry wind",
	"R33": "low frequency under stable conditions",
}
