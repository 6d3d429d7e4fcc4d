package models

import (
	"strings"
	"testing"
)

func validResponse() *QueryResponse {
	return &QueryResponse{
		IssueSummary:      "Excessive vibration detected in motor bearings",
		PossibleCauses:    []ProbableCause{{Cause: "Bearing wear", Probability: 0.8}},
		DiagnosticSteps:   []DiagnosticStep{{StepID: 1, Instruction: "Lock out power", StepType: StepSafety}},
		CorrectiveActions: []string{"Replace bearing"},
		SafetyWarnings:    []string{"De-energize before inspection"},
		ConfidenceScore:   0.9,
		Sources:           []string{"Induction_Motor_Maintenance_Manual.pdf"},
		KnowledgeSources: []KnowledgeSource{{
			Title:   "Induction Motor Maintenance Manual",
			Type:    SourceTechnicalManual,
			Excerpt: "Bearing vibration above 4 mm/s indicates wear.",
			Page:    "p. 45",
			FileURL: "Induction_Motor_Maintenance_Manual.pdf",
		}},
		RelatedCases:    []string{"Case #4829"},
		HistoricalCount: 12,
	}
}

func TestQueryResponse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QueryResponse)
		wantErr string
	}{
		{"valid", func(r *QueryResponse) {}, ""},
		{"empty summary", func(r *QueryResponse) { r.IssueSummary = "" }, "issue_summary"},
		{"missing causes", func(r *QueryResponse) { r.PossibleCauses = nil }, "possible_causes is required"},
		{"missing steps", func(r *QueryResponse) { r.DiagnosticSteps = nil }, "diagnostic_steps is required"},
		{"missing actions", func(r *QueryResponse) { r.CorrectiveActions = nil }, "corrective_actions is required"},
		{"missing warnings", func(r *QueryResponse) { r.SafetyWarnings = nil }, "safety_warnings is required"},
		{"missing sources", func(r *QueryResponse) { r.Sources = nil }, "sources is required"},
		{"missing knowledge sources", func(r *QueryResponse) { r.KnowledgeSources = nil }, "knowledge_sources is required"},
		{"missing related cases", func(r *QueryResponse) { r.RelatedCases = nil }, "related_cases is required"},
		{"empty cause", func(r *QueryResponse) { r.PossibleCauses[0].Cause = "" }, "possible_causes[0].cause"},
		{"probability above one", func(r *QueryResponse) { r.PossibleCauses[0].Probability = 1.2 }, "out of range"},
		{"negative probability", func(r *QueryResponse) { r.PossibleCauses[0].Probability = -0.1 }, "out of range"},
		{"empty instruction", func(r *QueryResponse) { r.DiagnosticSteps[0].Instruction = "" }, "instruction"},
		{"bad step type", func(r *QueryResponse) { r.DiagnosticSteps[0].StepType = "calibrate" }, "step_type"},
		{"empty source title", func(r *QueryResponse) { r.KnowledgeSources[0].Title = "" }, "title"},
		{"bad source type", func(r *QueryResponse) { r.KnowledgeSources[0].Type = "Blog Post" }, "knowledge_sources[0].type"},
		{"confidence above one", func(r *QueryResponse) { r.ConfidenceScore = 1.5 }, "confidence_score"},
		{"negative history", func(r *QueryResponse) { r.HistoricalCount = -1 }, "historical_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResponse()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestQueryResponse_ValidateEmptyLists(t *testing.T) {
	// Empty lists are valid: the fallback response has empty sources and
	// related_cases. Only absent (nil) lists are rejected.
	r := &QueryResponse{
		IssueSummary:      "degraded",
		PossibleCauses:    []ProbableCause{},
		DiagnosticSteps:   []DiagnosticStep{},
		CorrectiveActions: []string{},
		SafetyWarnings:    []string{},
		ConfidenceScore:   0.1,
		Sources:           []string{},
		KnowledgeSources:  []KnowledgeSource{},
		RelatedCases:      []string{},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() with empty lists: %v", err)
	}
}

func TestQueryRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *QueryRequest
		wantErr bool
	}{
		{"valid", &QueryRequest{Query: "motor vibrates", MachineContext: MachineContext{MachineType: "CNC Mill"}}, false},
		{"empty query", &QueryRequest{MachineContext: MachineContext{MachineType: "CNC Mill"}}, true},
		{"missing machine type", &QueryRequest{Query: "motor vibrates"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
