package models

import "fmt"

// Step types allowed in DiagnosticStep.StepType.
const (
	StepSafety     = "safety"
	StepInspection = "inspection"
	StepRepair     = "repair"
	StepTest       = "test"
	StepReport     = "report"
)

// Knowledge source types allowed in KnowledgeSource.Type.
const (
	SourceTechnicalManual = "Technical Manual"
	SourceCaseStudy       = "Case Study"
	SourceStandard        = "Standard"
	SourceIncidentLog     = "Incident Log"
)

// ProbableCause is one candidate cause with its estimated probability.
type ProbableCause struct {
	Cause       string  `json:"cause"`
	Probability float64 `json:"probability"`
}

// DiagnosticStep is one ordered step of the diagnostic procedure.
type DiagnosticStep struct {
	StepID      int    `json:"step_id"`
	Instruction string `json:"instruction"`
	StepType    string `json:"step_type"`
	ImageURL    string `json:"image_url,omitempty"`
}

// KnowledgeSource is a cited document excerpt backing the diagnosis.
// FileURL echoes the source filename so the UI can link to /docs/<file>.
type KnowledgeSource struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Excerpt  string `json:"excerpt"`
	Page     string `json:"page,omitempty"`
	SourceID string `json:"source_id,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
}

// QueryResponse is the structured diagnostic report returned for every query.
// Constructed fresh per query and never persisted.
type QueryResponse struct {
	IssueSummary      string            `json:"issue_summary"`
	PossibleCauses    []ProbableCause   `json:"possible_causes"`
	DiagnosticSteps   []DiagnosticStep  `json:"diagnostic_steps"`
	CorrectiveActions []string          `json:"corrective_actions"`
	SafetyWarnings    []string          `json:"safety_warnings"`
	ConfidenceScore   float64           `json:"confidence_score"`
	Sources           []string          `json:"sources"`
	KnowledgeSources  []KnowledgeSource `json:"knowledge_sources"`
	RelatedCases      []string          `json:"related_cases"`
	HistoricalCount   int               `json:"historical_count"`
}

func validStepType(t string) bool {
	switch t {
	case StepSafety, StepInspection, StepRepair, StepTest, StepReport:
		return true
	}
	return false
}

func validSourceType(t string) bool {
	switch t {
	case SourceTechnicalManual, SourceCaseStudy, SourceStandard, SourceIncidentLog:
		return true
	}
	return false
}

// Validate checks the response field by field and returns a descriptive error
// for the first violation. A response that fails validation is rejected
// wholesale; it is never partially repaired.
func (r *QueryResponse) Validate() error {
	if r.IssueSummary == "" {
		return fmt.Errorf("issue_summary cannot be empty")
	}
	// Every list field must be present. json.Unmarshal leaves an absent field
	// nil, so a nil slice means the model omitted it; an empty list ([]) is fine.
	if r.PossibleCauses == nil {
		return fmt.Errorf("possible_causes is required")
	}
	if r.DiagnosticSteps == nil {
		return fmt.Errorf("diagnostic_steps is required")
	}
	if r.CorrectiveActions == nil {
		return fmt.Errorf("corrective_actions is required")
	}
	if r.SafetyWarnings == nil {
		return fmt.Errorf("safety_warnings is required")
	}
	if r.Sources == nil {
		return fmt.Errorf("sources is required")
	}
	if r.KnowledgeSources == nil {
		return fmt.Errorf("knowledge_sources is required")
	}
	if r.RelatedCases == nil {
		return fmt.Errorf("related_cases is required")
	}
	for i, c := range r.PossibleCauses {
		if c.Cause == "" {
			return fmt.Errorf("possible_causes[%d].cause cannot be empty", i)
		}
		if c.Probability < 0 || c.Probability > 1 {
			return fmt.Errorf("possible_causes[%d].probability %v out of range [0,1]", i, c.Probability)
		}
	}
	for i, s := range r.DiagnosticSteps {
		if s.Instruction == "" {
			return fmt.Errorf("diagnostic_steps[%d].instruction cannot be empty", i)
		}
		if !validStepType(s.StepType) {
			return fmt.Errorf("diagnostic_steps[%d].step_type %q is not one of safety, inspection, repair, test, report", i, s.StepType)
		}
	}
	for i, k := range r.KnowledgeSources {
		if k.Title == "" {
			return fmt.Errorf("knowledge_sources[%d].title cannot be empty", i)
		}
		if !validSourceType(k.Type) {
			return fmt.Errorf("knowledge_sources[%d].type %q is not one of Technical Manual, Case Study, Standard, Incident Log", i, k.Type)
		}
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		return fmt.Errorf("confidence_score %v out of range [0,1]", r.ConfidenceScore)
	}
	if r.HistoricalCount < 0 {
		return fmt.Errorf("historical_count %d cannot be negative", r.HistoricalCount)
	}
	return nil
}
