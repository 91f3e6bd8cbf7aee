package knowledge

import (
	"fmt"
	"strings"
)

// Plant knowledge is injected configuration: the advisor and the gateway
// receive a Catalog at construction time, the engine itself only ever sees
// the numeric adjustment factor.

// PlantProfile carries the crop-specific tuning for one plant: the output
// multiplier handed to the fuzzy engine plus optimal bands and advisory text
// for the textual recommendation.
type PlantProfile struct {
	Name             string     `json:"name"`
	AdjustmentFactor float64    `json:"adjustment_factor"`
	SoilHumidityOpt  [2]float64 `json:"soil_humidity_opt"`
	TemperatureOpt   [2]float64 `json:"temperature_opt"`
	Advice           string     `json:"advice"`
}

// Catalog is a read-only lookup of plant profiles, keyed case-insensitively.
type Catalog struct {
	plants map[string]PlantProfile
}

// NewCatalog builds a catalog from explicit profiles.
func NewCatalog(profiles []PlantProfile) *Catalog {
	m := make(map[string]PlantProfile, len(profiles))
	for _, p := range profiles {
		m[strings.ToLower(strings.TrimSpace(p.Name))] = p
	}
	return &Catalog{plants: m}
}

// DefaultCatalog returns the built-in crop set used when a deployment does
// not supply its own profiles.
func DefaultCatalog() *Catalog {
	return NewCatalog([]PlantProfile{
		{Name: "tomato", AdjustmentFactor: 1.2, SoilHumidityOpt: [2]float64{55, 75}, TemperatureOpt: [2]float64{18, 28}, Advice: "keep soil consistently moist, avoid wetting the foliage"},
		{Name: "lettuce", AdjustmentFactor: 1.1, SoilHumidityOpt: [2]float64{60, 80}, TemperatureOpt: [2]float64{10, 22}, Advice: "shallow roots, prefer frequent light irrigation"},
		{Name: "pepper", AdjustmentFactor: 1.0, SoilHumidityOpt: [2]float64{50, 70}, TemperatureOpt: [2]float64{20, 30}, Advice: "tolerates short dry spells, do not overwater"},
		{Name: "cactus", AdjustmentFactor: 0.3, SoilHumidityOpt: [2]float64{10, 30}, TemperatureOpt: [2]float64{20, 35}, Advice: "let the soil dry out completely between irrigations"},
		{Name: "fern", AdjustmentFactor: 1.4, SoilHumidityOpt: [2]float64{65, 85}, TemperatureOpt: [2]float64{15, 25}, Advice: "high ambient humidity helps, never let the substrate dry"},
		{Name: "lawn", AdjustmentFactor: 1.0, SoilHumidityOpt: [2]float64{45, 65}, TemperatureOpt: [2]float64{12, 28}, Advice: "irrigate early in the morning to limit evaporation"},
	})
}

// Profile returns the profile for a plant name.
func (c *Catalog) Profile(name string) (PlantProfile, bool) {
	p, ok := c.plants[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Adjustment returns the plant's output multiplier, 1.0 for unknown plants.
// Callers clamp into the engine's [0.3, 1.5] band.
func (c *Catalog) Adjustment(name string) float64 {
	if p, ok := c.Profile(name); ok {
		return p.AdjustmentFactor
	}
	return 1.0
}

// Names lists the known plant names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.plants))
	for _, p := range c.plants {
		out = append(out, p.Name)
	}
	return out
}

// Advise compares the current soil humidity and temperature against the
// plant's optimal bands and renders a textual recommendation listing the
// band rules that applied.
func (c *Catalog) Advise(name string, soilHumidity, temperature float64) (string, bool) {
	p, ok := c.Profile(name)
	if !ok {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation for %s:\n", p.Name)
	var applied []string

	switch {
	case soilHumidity < p.SoilHumidityOpt[0]:
		b.WriteString("- soil humidity below optimum: increase irrigation\n")
		applied = append(applied, "soil humidity < optimal band -> increase irrigation")
	case soilHumidity > p.SoilHumidityOpt[1]:
		b.WriteString("- soil humidity above optimum: reduce irrigation\n")
		applied = append(applied, "soil humidity > optimal band -> reduce irrigation")
	default:
		b.WriteString("- soil humidity within the optimal band\n")
		applied = append(applied, "soil humidity within band -> keep irrigation")
	}

	switch {
	case temperature < p.TemperatureOpt[0]:
		b.WriteString("- temperature below optimum: moderate irrigation\n")
		applied = append(applied, "temperature < optimal band -> moderate irrigation")
	case temperature > p.TemperatureOpt[1]:
		b.WriteString("- temperature above optimum: increase irrigation\n")
		applied = append(applied, "temperature > optimal band -> increase irrigation")
	default:
		b.WriteString("- temperature ideal for this crop\n")
		applied = append(applied, "temperature within band -> normal irrigation")
	}

	fmt.Fprintf(&b, "Advice: %s\n", p.Advice)
	b.WriteString("Applied band rules:\n")
	for _, r := range applied {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String(), true
}
