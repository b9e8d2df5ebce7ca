package gate

import (
	"reflect"
	"testing"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

func gatedRecord(tier schema.Tier) schema.InputRecord {
	rec := schema.Defaults()
	rec.TaskDescription = "Draft the incident postmortem"
	rec.ComplexityTier = tier
	rec.CustomInstructions = "Reference the on-call timeline"
	rec.MultiStepEnabled = true
	rec.ChainOfThought = true
	rec.OutputLengthTarget = 800
	return rec
}

func TestCheckFeatureAccess(t *testing.T) {
	tests := []struct {
		feature Capability
		tier    schema.Tier
		want    bool
	}{
		{CapCustomInstructions, schema.TierFree, false},
		{CapCustomInstructions, schema.TierPro, true},
		{CapCustomInstructions, schema.TierEnterprise, true},
		{CapMultiStep, schema.TierFree, false},
		{CapMultiStep, schema.TierPro, true},
		{CapChainOfThought, schema.TierFree, false},
		{CapChainOfThought, schema.TierPro, false},
		{CapChainOfThought, schema.TierEnterprise, true},
		{CapOutputLengthTarget, schema.TierFree, false},
		{CapOutputLengthTarget, schema.TierPro, true},
		{Capability("unknown_feature"), schema.TierFree, true},
	}

	for _, tt := range tests {
		if got := CheckFeatureAccess(tt.feature, tt.tier); got != tt.want {
			t.Errorf("CheckFeatureAccess(%s, %s) = %v, want %v", tt.feature, tt.tier, got, tt.want)
		}
	}
}

func TestApply_FreeTierDowngrades(t *testing.T) {
	rec := &events.Recorder{}
	g := New(rec)

	out := g.Apply(gatedRecord(schema.TierFree))

	if out.CustomInstructions != "" {
		t.Error("custom instructions should be cleared")
	}
	if out.MultiStepEnabled || out.ChainOfThought {
		t.Error("multi-step and chain-of-thought should be off")
	}
	if out.OutputLengthTarget != 0 {
		t.Error("length target should be reset")
	}

	if n := len(rec.ByKind(events.KindUpgradePrompted)); n != 4 {
		t.Errorf("expected 4 upgrade events, got %d", n)
	}
}

func TestApply_ProKeepsAllButChainOfThought(t *testing.T) {
	rec := &events.Recorder{}
	g := New(rec)

	out := g.Apply(gatedRecord(schema.TierPro))

	if out.CustomInstructions == "" || !out.MultiStepEnabled || out.OutputLengthTarget == 0 {
		t.Error("pro tier should keep custom instructions, multi-step, and length target")
	}
	if out.ChainOfThought {
		t.Error("pro tier should not keep chain-of-thought")
	}
	if n := len(rec.ByKind(events.KindUpgradePrompted)); n != 1 {
		t.Errorf("expected 1 upgrade event, got %d", n)
	}
}

func TestApply_EnterpriseUntouched(t *testing.T) {
	rec := &events.Recorder{}
	g := New(rec)

	in := gatedRecord(schema.TierEnterprise)
	out := g.Apply(in)

	if !reflect.DeepEqual(in, out) {
		t.Errorf("enterprise record should pass through unchanged:\nin:  %+v\nout: %+v", in, out)
	}
	if n := len(rec.Events()); n != 0 {
		t.Errorf("expected no events, got %d", n)
	}
}

func TestApply_Idempotent(t *testing.T) {
	rec := &events.Recorder{}
	g := New(rec)

	once := g.Apply(gatedRecord(schema.TierFree))
	firstCount := len(rec.Events())

	twice := g.Apply(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("second application changed an already-gated record")
	}
	if len(rec.Events()) != firstCount {
		t.Error("second application emitted events for an already-clean record")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	g := New(events.NopSink{})

	in := gatedRecord(schema.TierFree)
	in.Constraints = []string{"Include the detection timeline"}
	_ = g.Apply(in)

	if in.CustomInstructions == "" {
		t.Error("Apply mutated its input record")
	}
}

func TestQuotaLimit(t *testing.T) {
	tests := []struct {
		tier schema.Tier
		kind QuotaKind
		want int
	}{
		{schema.TierFree, QuotaPromptsPerDay, 10},
		{schema.TierFree, QuotaMaxPromptLength, 1000},
		{schema.TierFree, QuotaSavedPrompts, 5},
		{schema.TierPro, QuotaPromptsPerDay, 100},
		{schema.TierPro, QuotaMaxPromptLength, 5000},
		{schema.TierPro, QuotaSavedPrompts, 50},
		{schema.TierEnterprise, QuotaPromptsPerDay, Unlimited},
		{schema.TierEnterprise, QuotaSavedPrompts, Unlimited},
	}

	for _, tt := range tests {
		if got := QuotaLimit(tt.tier, tt.kind); got != tt.want {
			t.Errorf("QuotaLimit(%s, %s) = %d, want %d", tt.tier, tt.kind, got, tt.want)
		}
	}
}

func TestQuotaLimit_UnknownTierGetsFreeLimits(t *testing.T) {
	if got := QuotaLimit(schema.Tier("trial"), QuotaPromptsPerDay); got != 10 {
		t.Errorf("expected free-tier limit 10, got %d", got)
	}
}
