package models

// Subject is one of the fixed subject areas an item can be classified into.
type Subject string

const (
	SubjectCompensation       Subject = "compensation"
	SubjectManagement         Subject = "management"
	SubjectWorkingConditions  Subject = "working_conditions"
	SubjectScheduleTime       Subject = "schedule_time"
	SubjectCareerDevelopment  Subject = "career_development"
	SubjectWorkplaceCulture   Subject = "workplace_culture"
	SubjectPoliciesProcedures Subject = "policies_procedures"
	SubjectTechnologySystems  Subject = "technology_systems"
	SubjectGeneralExperience  Subject = "general_experience"
)

// SubjectPriority lists every subject in tie-break order, highest priority first.
var SubjectPriority = []Subject{
	SubjectCompensation,
	SubjectManagement,
	SubjectWorkingConditions,
	SubjectScheduleTime,
	SubjectCareerDevelopment,
	SubjectWorkplaceCulture,
	SubjectPoliciesProcedures,
	SubjectTechnologySystems,
	SubjectGeneralExperience,
}

// FallbackSubject is assigned when no subject keyword fires.
const FallbackSubject = SubjectGeneralExperience

// Rank returns the position of s in SubjectPriority, or len(SubjectPriority) if unknown.
func (s Subject) Rank() int {
	for i, p := range SubjectPriority {
		if p == s {
			return i
		}
	}
	return len(SubjectPriority)
}

type ClassificationResult struct {
	ItemID            string          `json:"item_id"`
	Subject           Subject         `json:"subject"`
	SecondarySubjects []Subject       `json:"secondary_subjects"`
	SubjectScores     map[Subject]int `json:"subject_scores"`
	MatchedPhrases    []string        `json:"matched_phrases"`
	KeyPhrases        []string        `json:"key_phrases"`
	Confidence        float64         `json:"classification_confidence"`
}
