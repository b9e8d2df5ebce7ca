package schema

import "strings"

// IntentType classifies what the user wants the model to do.
type IntentType string

const (
	IntentCreate    IntentType = "create"
	IntentAnalyze   IntentType = "analyze"
	IntentTransform IntentType = "transform"
	IntentExtract   IntentType = "extract"
	IntentPlan      IntentType = "plan"
	IntentSolve     IntentType = "solve"
)

// TaskDomain is the subject area of the task.
type TaskDomain string

const (
	DomainBusiness    TaskDomain = "business"
	DomainCreative    TaskDomain = "creative"
	DomainTechnical   TaskDomain = "technical"
	DomainEducational TaskDomain = "educational"
	DomainMarketing   TaskDomain = "marketing"
	DomainPersonal    TaskDomain = "personal"
)

// OutputType is the desired shape of the model's response.
type OutputType string

const (
	OutputText     OutputType = "text"
	OutputList     OutputType = "list"
	OutputTable    OutputType = "table"
	OutputCode     OutputType = "code"
	OutputOutline  OutputType = "outline"
	OutputJSON     OutputType = "json"
	OutputMarkdown OutputType = "markdown"
	OutputReport   OutputType = "report"
)

// Tone is the requested voice of the response.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneTechnical     Tone = "technical"
	ToneFriendly      Tone = "friendly"
	ToneAuthoritative Tone = "authoritative"
	ToneCreative      Tone = "creative"
	ToneNeutral       Tone = "neutral"
)

// DetailLevel controls how expansive the response should be.
type DetailLevel string

const (
	DetailBrief         DetailLevel = "brief"
	DetailStandard      DetailLevel = "standard"
	DetailComprehensive DetailLevel = "comprehensive"
)

// Tier is the caller's access level.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

var tierWeight = map[Tier]int{
	TierFree:       0,
	TierPro:        1,
	TierEnterprise: 2,
}

// AtLeast reports whether t grants at least the access of other.
func (t Tier) AtLeast(other Tier) bool {
	return tierWeight[t] >= tierWeight[other]
}

func IntentTypes() []IntentType {
	return []IntentType{IntentCreate, IntentAnalyze, IntentTransform, IntentExtract, IntentPlan, IntentSolve}
}

func TaskDomains() []TaskDomain {
	return []TaskDomain{DomainBusiness, DomainCreative, DomainTechnical, DomainEducational, DomainMarketing, DomainPersonal}
}

func OutputTypes() []OutputType {
	return []OutputType{OutputText, OutputList, OutputTable, OutputCode, OutputOutline, OutputJSON, OutputMarkdown, OutputReport}
}

func Tones() []Tone {
	return []Tone{ToneProfessional, ToneCasual, ToneTechnical, ToneFriendly, ToneAuthoritative, ToneCreative, ToneNeutral}
}

func DetailLevels() []DetailLevel {
	return []DetailLevel{DetailBrief, DetailStandard, DetailComprehensive}
}

func Tiers() []Tier {
	return []Tier{TierFree, TierPro, TierEnterprise}
}

// normalize lowers and trims a raw vocabulary candidate. Membership checks
// are case-insensitive by contract; casing is normalized before comparison.
func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CoerceIntentType maps a raw string onto the intent vocabulary. The second
// return is false when the value was out of vocabulary and the documented
// default was substituted. All Coerce functions are total.
func CoerceIntentType(raw string) (IntentType, bool) {
	v := IntentType(normalize(raw))
	for _, allowed := range IntentTypes() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultIntentType, false
}

func CoerceTaskDomain(raw string) (TaskDomain, bool) {
	v := TaskDomain(normalize(raw))
	for _, allowed := range TaskDomains() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultTaskDomain, false
}

func CoerceOutputType(raw string) (OutputType, bool) {
	v := OutputType(normalize(raw))
	for _, allowed := range OutputTypes() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultOutputType, false
}

func CoerceTone(raw string) (Tone, bool) {
	v := Tone(normalize(raw))
	for _, allowed := range Tones() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultTone, false
}

func CoerceDetailLevel(raw string) (DetailLevel, bool) {
	v := DetailLevel(normalize(raw))
	for _, allowed := range DetailLevels() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultDetailLevel, false
}

func CoerceTier(raw string) (Tier, bool) {
	v := Tier(normalize(raw))
	for _, allowed := range Tiers() {
		if v == allowed {
			return v, true
		}
	}
	return DefaultTier, false
}
