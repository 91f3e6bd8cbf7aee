package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBaseIsValid(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)
	assert.NoError(t, validateRules(reg, ruleBase))
	assert.Len(t, ruleBase, RuleCount)
}

func TestRuleAntecedentArity(t *testing.T) {
	for _, r := range ruleBase {
		assert.GreaterOrEqual(t, len(r.When), 1, "%s", r.ID)
		assert.LessOrEqual(t, len(r.When), 4, "%s", r.ID)
		assert.GreaterOrEqual(t, len(r.Then), 1, "%s", r.ID)
		assert.LessOrEqual(t, len(r.Then), 2, "%s", r.ID)
	}
}

func TestEveryRuleHasExplainabilityEntries(t *testing.T) {
	for _, r := range ruleBase {
		assert.Contains(t, ruleDescriptions, r.ID)
		assert.Contains(t, ruleImpacts, r.ID)
	}
}

func TestValidateRulesRejectsMalformed(t *testing.T) {
	reg, err := newRegistry()
	require.NoError(t, err)

	bad := make([]Rule, RuleCount)
	copy(bad, ruleBase)
	bad[0] = Rule{ID: "R1", When: when(VarTemperature, "nope"), Then: then(VarDuration, "long")}
	assert.Error(t, validateRules(reg, bad))

	bad[0] = Rule{ID: "R1", When: when(VarTemperature, "high"), Then: then(VarTemperature, "high")}
	assert.Error(t, validateRules(reg, bad))

	bad[0] = Rule{ID: "R2", When: when(VarTemperature, "high"), Then: then(VarDuration, "long")}
	assert.Error(t, validateRules(reg, bad), "duplicate ids must be rejected")
}
