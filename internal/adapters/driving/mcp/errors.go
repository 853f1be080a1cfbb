// Package mcp provides an MCP (Model Context Protocol) server adapter for gradewise.
// It lets AI assistants retrieve reference passages and grade answers.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")

// ErrMissingQueryEngine is returned when the query engine is not provided.
var ErrMissingQueryEngine = errors.New("mcp: query engine is required")
