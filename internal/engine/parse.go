package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oritsune/naosu/internal/models"
)

// StripFences removes markdown code fences a model sometimes wraps its JSON
// in, despite being told not to.
func StripFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// ParseResponse decodes and validates a model completion. The response is
// accepted whole or rejected whole; a validation failure is never repaired.
func ParseResponse(content string) (*models.QueryResponse, error) {
	var resp models.QueryResponse
	if err := json.Unmarshal([]byte(StripFences(content)), &resp); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model output: %w", err)
	}
	return &resp, nil
}
