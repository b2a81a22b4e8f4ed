package models

// HighRiskAlert is published for every item that lands in HIGH_RISK.
type HighRiskAlert struct {
	ItemID            string   `json:"item_id"`
	Kind              ItemKind `json:"kind"`
	Subject           Subject  `json:"subject"`
	Excerpt           string   `json:"excerpt"`
	RiskScore         int      `json:"risk_score"`
	Indicators        []string `json:"indicators"`
	Engagement        int      `json:"engagement"`
	ExecutiveSummary  string   `json:"executive_summary"`
	RecommendedAction string   `json:"recommended_action"`
}
