package engine

import (
	"fmt"
	"strings"

	"github.com/oritsune/naosu/internal/models"
)

// systemPrompt pins the model to JSON-only output matching the
// QueryResponse schema. file_url must echo the Source header filename so
// citations link back to /docs/<file>.
const systemPrompt = `You are an expert manufacturing maintenance assistant.
Analyze the machine context, user query, and retrieved technical documents to provide a precise diagnosis.

Return ONLY valid JSON. Do not include any text before or after the JSON.
The JSON must strictly follow this schema:
{
    "issue_summary": "One sentence summary (e.g., 'Excessive Vibration Detected in Motor Bearings').",
    "possible_causes": [{"cause": "Cause Name", "probability": 0.8}],
    "diagnostic_steps": [
        {"step_id": 1, "instruction": "Step text", "step_type": "safety"}
    ],
    "corrective_actions": ["Action 1"],
    "safety_warnings": ["Warning 1"],
    "confidence_score": 0.9,
    "sources": ["Filename.pdf"],
    "knowledge_sources": [
        {
            "title": "Document Title",
            "type": "Technical Manual",
            "excerpt": "Specific relevant text from doc",
            "page": "p. 45-50",
            "file_url": "filename.pdf"
        }
    ],
    "related_cases": ["Case #4829"],
    "historical_count": 2347
}
Step Types must be: safety, inspection, repair, test, report.
Knowledge Source Types: Technical Manual, Case Study, Standard, Incident Log.
IMPORTANT: The "file_url" must be the exact filename (e.g., 'Induction_Motor_Maintenance_Manual.pdf') provided in the 'Source:' header of each technical reference below.`

// buildContext renders retrieved chunks as the technical reference block.
func buildContext(docs []*models.RetrievedChunk) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", doc.SourceFile, doc.Text))
	}
	return strings.Join(parts, "\n\n")
}

// machineInfo renders the machine context as a single line, "Unknown" for
// absent fields.
func machineInfo(mc *models.MachineContext) string {
	machineType := mc.MachineType
	if machineType == "" {
		machineType = "Unknown"
	}
	model := mc.Model
	if model == "" {
		model = "Unknown"
	}
	age := "Unknown"
	if mc.AgeYears != nil {
		age = fmt.Sprintf("%g", *mc.AgeYears)
	}
	return fmt.Sprintf("Machine Type: %s, Model: %s, Age: %s years", machineType, model, age)
}

// buildUserPrompt assembles the single user message sent to the model.
func buildUserPrompt(query string, mc *models.MachineContext, docs []*models.RetrievedChunk) string {
	return fmt.Sprintf("Context: %s\nProblem: %s\n\nTechnical Reference Material:\n%s",
		machineInfo(mc), query, buildContext(docs))
}
