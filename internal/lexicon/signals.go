package lexicon

// SignalGroup is an ordered category of phrases. Groups are scanned in
// declaration order so indicator lists come out the same on every run.
type SignalGroup struct {
	Category string
	Phrases  []string
}

const (
	CategoryRetentionRisk  = "retention_risk"
	CategoryCompensation   = "compensation_dissatisfaction"
	CategoryPolicyBacklash = "policy_backlash"
	CategoryOperational    = "operational_concerns"
	CategoryMorale         = "morale_issues"
	CategorySatisfaction   = "genuine_satisfaction"
	CategoryPolicyApproval = "policy_approval"
	CategoryRetentionPos   = "retention_positive"
	ModifierSarcasm        = "sarcasm_indicators"
	ModifierSympathy       = "sympathy_expressions"
	ModifierSolidarity     = "solidarity_expressions"
)

var NegativeSignals = []SignalGroup{
	{Category: CategoryRetentionRisk, Phrases: []string{
		"quit", "quitting", "leaving", "left", "done", "fed up",
		"looking for another job", "job hunting", "resignation",
		"last day", "two weeks notice", "better opportunities",
	}},
	{Category: CategoryCompensation, Phrases: []string{
		"underpaid", "unfair", "joke", "insulting", "pathetic",
		"not enough", "barely surviving", "can't afford",
		"poverty wages", "slave wages", "rip off", "shafted",
		"screwed over", "getting screwed",
	}},
	{Category: CategoryPolicyBacklash, Phrases: []string{
		"stupid policy", "ridiculous", "makes no sense",
		"who thought this up", "terrible decision",
		"management doesn't care", "out of touch",
	}},
	{Category: CategoryOperational, Phrases: []string{
		"unsafe", "dangerous", "injury", "hurt", "pain",
		"burnout", "exhausted", "overworked", "understaffed",
		"impossible quotas", "unrealistic expectations",
	}},
	{Category: CategoryMorale, Phrases: []string{
		"hate this place", "toxic", "depressing", "soul crushing",
		"no respect", "treated like garbage", "dehumanizing",
		"don't care about us", "just a number",
	}},
}

var PositiveSignals = []SignalGroup{
	{Category: CategorySatisfaction, Phrases: []string{
		"love working here", "great company", "fair treatment",
		"good benefits", "competitive pay", "work-life balance",
		"supportive management", "career growth", "opportunities",
	}},
	{Category: CategoryPolicyApproval, Phrases: []string{
		"good change", "finally", "about time", "step in right direction",
		"improvement", "better than before", "fair decision",
	}},
	{Category: CategoryRetentionPos, Phrases: []string{
		"staying", "committed", "long-term", "career here",
		"recommend working here", "proud to work here",
	}},
}

var ContextModifiers = []SignalGroup{
	{Category: ModifierSarcasm, Phrases: []string{
		"yeah right", "sure", "of course", "obviously",
		"great job", "brilliant", "genius move",
	}},
	{Category: ModifierSympathy, Phrases: []string{
		"sorry for", "heart goes out", "feel bad for",
		"sending hugs", "thoughts and prayers",
	}},
	{Category: ModifierSolidarity, Phrases: []string{
		"we're in this together", "support each other",
		"stick together", "have each other's backs",
	}},
}

var highSeverity = map[string]struct{}{
	"quit": {}, "quitting": {}, "leaving": {}, "resignation": {}, "hate this place": {},
	"toxic": {}, "unsafe": {}, "dangerous": {}, "injury": {},
}

var strongPositive = map[string]struct{}{
	"love working here": {}, "great company": {}, "recommend working here": {},
	"career growth": {}, "competitive pay": {},
}

// IsHighSeverity reports whether phrase belongs to the acute risk set.
func IsHighSeverity(phrase string) bool {
	_, ok := highSeverity[phrase]
	return ok
}

// IsStrongPositive reports whether phrase belongs to the strongest positive set.
func IsStrongPositive(phrase string) bool {
	_, ok := strongPositive[phrase]
	return ok
}
