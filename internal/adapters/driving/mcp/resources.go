package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for gradewise resources.
	uriScheme = "gradewise://"

	latestSessionURI = uriScheme + "sessions/latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         latestSessionURI,
		Name:        "latest-session",
		Description: "The most recently published exam session with its report",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session",
		Description: "An exam session with its questions and report",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// handleSessionResource returns a session as JSON.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sessions == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractSessionID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var (
		session *domain.ExamSession
		err     error
	)
	if id == "latest" {
		session, err = s.ports.Sessions.Latest(ctx)
	} else {
		session, err = s.ports.Sessions.Get(ctx, id)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the id from a URI like gradewise://sessions/{sessionId}.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
