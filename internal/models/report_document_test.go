package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReportDocument(t *testing.T) {
	r := Report{
		RunID: "run-1",
		Subjects: map[Subject]SubjectSummary{
			SubjectCompensation: {Subject: SubjectCompensation, PostCount: 2},
		},
		Cost: CostSnapshot{CallsMade: 2, UnitsBilled: 8, EstimatedCost: decimal.RequireFromString("0.0008")},
	}

	doc, err := r.Document()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["run_id"] != "run-1" {
		t.Fatalf("unexpected run id %v", doc["run_id"])
	}

	subjects, ok := doc["subject_areas"].(map[string]any)
	if !ok {
		t.Fatalf("expected subject_areas mapping, got %T", doc["subject_areas"])
	}
	comp, ok := subjects["compensation"].(map[string]any)
	if !ok || comp["post_count"] != float64(2) {
		t.Fatalf("unexpected compensation entry %v", subjects["compensation"])
	}

	cost, ok := doc["cost_summary"].(map[string]any)
	if !ok || cost["estimated_cost"] != 0.0008 || cost["api_calls"] != float64(2) {
		t.Fatalf("unexpected cost summary %v", doc["cost_summary"])
	}
}

func TestCostSnapshot_EncodesCostAsNumber(t *testing.T) {
	raw, err := json.Marshal(CostSnapshot{CallsMade: 3, UnitsBilled: 12, EstimatedCost: decimal.RequireFromString("0.0012")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"estimated_cost":0.0012`) {
		t.Fatalf("expected bare numeric cost, got %s", raw)
	}

	var back CostSnapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.EstimatedCost.Equal(decimal.RequireFromString("0.0012")) || back.UnitsBilled != 12 {
		t.Fatalf("unexpected decoded snapshot %+v", back)
	}
}

func TestSubjectRank(t *testing.T) {
	if SubjectCompensation.Rank() != 0 || SubjectGeneralExperience.Rank() != len(SubjectPriority)-1 {
		t.Fatalf("unexpected ranks")
	}
	if Subject("unknown").Rank() != len(SubjectPriority) {
		t.Fatalf("unknown subject should rank last")
	}
}
