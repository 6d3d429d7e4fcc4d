// Package cases maintains a full-text index of past diagnostic cases so a
// new query can be linked to similar historical issues.
package cases

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/oritsune/naosu/internal/models"
	"github.com/oritsune/naosu/pkg/utils"
)

// Result is one related historical case.
type Result struct {
	ID    string
	Label string
	Score float64
}

// caseDoc is the shape indexed into Bleve for a diagnostic case.
type caseDoc struct {
	Query        string `json:"query"`
	MachineType  string `json:"machine_type"`
	FaultType    string `json:"fault_type"`
	IssueSummary string `json:"issue_summary"`
}

// Index stores diagnostic cases in a Bleve index.
type Index struct {
	index bleve.Index
}

// NewIndex creates or opens a case index at path. An existing index is
// opened and reused so history survives restarts.
func NewIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open case index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so fault terms
	// like "bearing" match exactly.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("query", textFieldMapping)
	docMapping.AddFieldMappingsAt("issue_summary", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("machine_type", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("fault_type", keywordFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create case index: %w", err)
	}
	return &Index{index: index}, nil
}

// Add indexes one diagnostic case by its ID.
func (ci *Index) Add(ctx context.Context, c *models.DiagnosticCase) error {
	return ci.index.Index(c.ID, caseDoc{
		Query:        c.Query,
		MachineType:  c.MachineType,
		FaultType:    c.FaultType,
		IssueSummary: c.IssueSummary,
	})
}

// Search returns up to limit cases similar to the query, restricted to the
// given machine type when it is non-empty. Results carry a short label
// suitable for a report's related-cases list.
func (ci *Index) Search(ctx context.Context, query, machineType string, limit int) ([]*Result, error) {
	matchQuery := bleve.NewMatchQuery(query)
	var req *bleve.SearchRequest
	if machineType != "" {
		typeQuery := bleve.NewTermQuery(machineType)
		typeQuery.SetField("machine_type")
		req = bleve.NewSearchRequest(bleve.NewConjunctionQuery(matchQuery, typeQuery))
	} else {
		req = bleve.NewSearchRequest(matchQuery)
	}
	req.Size = limit
	req.Fields = []string{"machine_type", "fault_type", "issue_summary"}

	results, err := ci.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("case search failed: %w", err)
	}
	out := make([]*Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		out = append(out, &Result{
			ID:    hit.ID,
			Label: caseLabel(hit.Fields),
			Score: hit.Score,
		})
	}
	return out, nil
}

// caseLabel builds a human-readable reference like
// "bearing_failure (CNC Milling Machine)".
func caseLabel(fields map[string]interface{}) string {
	machineType, _ := fields["machine_type"].(string)
	faultType, _ := fields["fault_type"].(string)
	summary, _ := fields["issue_summary"].(string)
	label := utils.Truncate(summary, 80)
	if faultType != "" {
		label = faultType
	}
	if label == "" {
		label = "unclassified issue"
	}
	if machineType != "" {
		return fmt.Sprintf("%s (%s)", label, machineType)
	}
	return label
}

// Delete removes a case from the index.
func (ci *Index) Delete(ctx context.Context, id string) error {
	return ci.index.Delete(id)
}

// Count returns the number of indexed cases.
func (ci *Index) Count() (uint64, error) {
	return ci.index.DocCount()
}

// Close closes the underlying index.
func (ci *Index) Close() error {
	return ci.index.Close()
}
