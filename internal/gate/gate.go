// Package gate enforces which optional capabilities each access tier may
// use. It intentionally duplicates part of the canonicalizer's tier
// defaults: the gate must be idempotent and safe to run even on a record
// that skipped canonicalization.
package gate

import (
	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// Capability names the tier-gated features.
type Capability string

const (
	CapCustomInstructions Capability = "custom_instructions"
	CapMultiStep          Capability = "multi_step_enabled"
	CapChainOfThought     Capability = "chain_of_thought"
	CapOutputLengthTarget Capability = "output_length_target"
)

// featureGates maps each capability to the tiers allowed to use it.
var featureGates = map[Capability][]schema.Tier{
	CapCustomInstructions: {schema.TierPro, schema.TierEnterprise},
	CapMultiStep:          {schema.TierPro, schema.TierEnterprise},
	CapChainOfThought:     {schema.TierEnterprise},
	CapOutputLengthTarget: {schema.TierPro, schema.TierEnterprise},
}

// CheckFeatureAccess reports whether tier may use the capability. Unknown
// capabilities are treated as public.
func CheckFeatureAccess(feature Capability, tier schema.Tier) bool {
	allowed, ok := featureGates[feature]
	if !ok {
		return true
	}
	for _, t := range allowed {
		if t == tier {
			return true
		}
	}
	return false
}

// AllowedTiers returns the tiers permitted to use a capability.
func AllowedTiers(feature Capability) []schema.Tier {
	return append([]schema.Tier(nil), featureGates[feature]...)
}

// Gate resets tier-violating fields to their inert defaults, emitting an
// upgrade-prompted event per downgrade.
type Gate struct {
	Sink events.Sink
}

func New(sink events.Sink) *Gate {
	return &Gate{Sink: sink}
}

func (g *Gate) upgradePrompted(feature Capability, tier schema.Tier) {
	events.Emit(g.Sink, events.KindUpgradePrompted, map[string]any{
		"feature_name":  string(feature),
		"required_tier": AllowedTiers(feature),
		"user_tier":     string(tier),
	})
}

// Apply is a total function: it never fails and is idempotent. Fields are
// only reset (and events only emitted) when the record actually carries a
// disallowed value.
func (g *Gate) Apply(rec schema.InputRecord) schema.InputRecord {
	out := rec.Clone()
	tier := out.ComplexityTier

	if out.CustomInstructions != "" && !CheckFeatureAccess(CapCustomInstructions, tier) {
		g.upgradePrompted(CapCustomInstructions, tier)
		out.CustomInstructions = ""
	}
	if out.MultiStepEnabled && !CheckFeatureAccess(CapMultiStep, tier) {
		g.upgradePrompted(CapMultiStep, tier)
		out.MultiStepEnabled = false
	}
	if out.ChainOfThought && !CheckFeatureAccess(CapChainOfThought, tier) {
		g.upgradePrompted(CapChainOfThought, tier)
		out.ChainOfThought = false
	}
	if out.OutputLengthTarget != 0 && !CheckFeatureAccess(CapOutputLengthTarget, tier) {
		g.upgradePrompted(CapOutputLengthTarget, tier)
		out.OutputLengthTarget = 0
	}

	return out
}
