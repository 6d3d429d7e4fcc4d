// Package models defines core data structures for queries, documents, and diagnostic reports.
package models

import "fmt"

// MachineContext is caller-supplied metadata about the asset being diagnosed.
type MachineContext struct {
	MachineType         string   `json:"machine_type"`
	Model               string   `json:"model,omitempty"`
	AgeYears            *float64 `json:"age_years,omitempty"`
	LastMaintenanceDate string   `json:"last_maintenance_date,omitempty"`
	OperatingHours      *float64 `json:"operating_hours,omitempty"`
}

// QueryRequest is a single incoming diagnostic query. Not persisted.
type QueryRequest struct {
	Query          string         `json:"query"`
	MachineContext MachineContext `json:"machine_context"`
	FaultType      string         `json:"fault_type,omitempty"`
}

// Validate checks that the request has a query and a machine type.
// Returns a descriptive error for the request-validation layer (422-class).
func (r *QueryRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.MachineContext.MachineType == "" {
		return fmt.Errorf("machine_context.machine_type is required")
	}
	return nil
}

// RetrievedChunk is a single passage returned by vector retrieval.
// Lives only within one query's handling.
type RetrievedChunk struct {
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	Page       string `json:"page,omitempty"`
}
