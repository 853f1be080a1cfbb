package mcp

import (
	"github.com/custodia-labs/gradewise/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Index serves retrieval.
	Index driving.IndexService

	// Query grades single answers.
	Query driving.QueryEngine

	// Sessions exposes published exams. Optional.
	Sessions driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Query == nil {
		return ErrMissingQueryEngine
	}
	return nil
}
