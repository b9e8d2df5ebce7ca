package gate

import "github.com/ChamsBouzaiene/promptstitch/internal/schema"

// QuotaKind names the quantitative limits attached to each tier.
type QuotaKind string

const (
	QuotaPromptsPerDay   QuotaKind = "prompts_per_day"
	QuotaMaxPromptLength QuotaKind = "max_prompt_length"
	QuotaSavedPrompts    QuotaKind = "saved_prompts"
)

// Unlimited marks a quota with no cap.
const Unlimited = -1

var tierQuotas = map[schema.Tier]map[QuotaKind]int{
	schema.TierFree: {
		QuotaPromptsPerDay:   10,
		QuotaMaxPromptLength: 1000,
		QuotaSavedPrompts:    5,
	},
	schema.TierPro: {
		QuotaPromptsPerDay:   100,
		QuotaMaxPromptLength: 5000,
		QuotaSavedPrompts:    50,
	},
	schema.TierEnterprise: {
		QuotaPromptsPerDay:   Unlimited,
		QuotaMaxPromptLength: Unlimited,
		QuotaSavedPrompts:    Unlimited,
	},
}

// QuotaLimit returns the limit for a tier and quota kind, or Unlimited.
// Unknown tiers get the free-tier limits.
func QuotaLimit(tier schema.Tier, kind QuotaKind) int {
	limits, ok := tierQuotas[tier]
	if !ok {
		limits = tierQuotas[schema.TierFree]
	}
	limit, ok := limits[kind]
	if !ok {
		return Unlimited
	}
	return limit
}
