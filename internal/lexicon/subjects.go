package lexicon

import "github.com/spacesedan/fcpulse/internal/models"

// SubjectKeywords maps each subject area to the keywords counted against it.
// Short keywords such as "am", "pa" and "hr" are matched as plain substrings,
// so they also fire inside longer words.
var SubjectKeywords = map[models.Subject][]string{
	models.SubjectCompensation: {
		"salary", "wage", "pay", "raise", "bonus", "benefits", "overtime", "tier", "promotion",
	},
	models.SubjectWorkingConditions: {
		"safety", "break", "bathroom", "pace", "quota", "rate", "conditions", "environment",
	},
	models.SubjectManagement: {
		"manager", "supervisor", "leadership", "boss", "am", "pa", "hr",
	},
	models.SubjectScheduleTime: {
		"schedule", "shift", "hours", "time", "overtime", "vet", "vto", "upt",
	},
	models.SubjectCareerDevelopment: {
		"career", "training", "learning", "development", "skills", "advancement",
	},
	models.SubjectWorkplaceCulture: {
		"culture", "team", "coworkers", "atmosphere", "morale", "respect",
	},
	models.SubjectPoliciesProcedures: {
		"policy", "procedure", "rules", "guidelines", "compliance", "attendance",
	},
	models.SubjectTechnologySystems: {
		"system", "technology", "app", "scanner", "computer", "software",
	},
	models.SubjectGeneralExperience: {
		"experience", "job", "work", "amazon", "fc", "warehouse",
	},
}

// TopicGroups buckets provider key phrases into coarse emerging topics.
var TopicGroups = []SignalGroup{
	{Category: "pay_benefits", Phrases: []string{"pay", "salary", "wage", "benefits", "bonus", "raise"}},
	{Category: "work_environment", Phrases: []string{"safety", "conditions", "environment", "workplace"}},
	{Category: "management_issues", Phrases: []string{"manager", "supervisor", "leadership", "management"}},
	{Category: "scheduling", Phrases: []string{"schedule", "shift", "hours", "overtime"}},
	{Category: "technology", Phrases: []string{"system", "app", "technology", "scanner"}},
}
