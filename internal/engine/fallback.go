package engine

import (
	"fmt"

	"github.com/oritsune/naosu/internal/models"
)

// fallbackResponse builds the fixed degraded-mode report returned when no
// model is configured or generation failed. errMsg, when non-empty, is
// embedded in the summary so the caller can see what went wrong without a
// non-200 status. The result always passes QueryResponse.Validate.
func fallbackResponse(query string, errMsg string) *models.QueryResponse {
	summary := fmt.Sprintf("Analysis of %s (Fallback Mode)", query)
	if errMsg != "" {
		summary += fmt.Sprintf(" - Error: %s", errMsg)
	}
	return &models.QueryResponse{
		IssueSummary: summary,
		PossibleCauses: []models.ProbableCause{
			{Cause: "Unknown/Check Connection", Probability: 0.1},
		},
		DiagnosticSteps: []models.DiagnosticStep{
			{StepID: 1, Instruction: "Check API Key connection", StepType: models.StepInspection},
		},
		CorrectiveActions: []string{"Ensure Groq API Key is valid"},
		SafetyWarnings:    []string{"System running in fallback mode"},
		ConfidenceScore:   0.1,
		Sources:           []string{},
		KnowledgeSources: []models.KnowledgeSource{
			{
				Title:   "System Troubleshooting Guide",
				Type:    models.SourceTechnicalManual,
				Excerpt: "Connection lost or API error encountered during processing.",
				Page:    "App Error Log",
			},
		},
		RelatedCases:    []string{},
		HistoricalCount: 0,
	}
}
