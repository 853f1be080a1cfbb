package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"text to find reference passages for"`
	K     int    `json:"k,omitempty" jsonschema:"number of passages to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput is a single retrieved chunk.
type PassageOutput struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
	Source   string  `json:"source,omitempty"`
}

// GradeInput is the input schema for the grade_answer tool.
type GradeInput struct {
	Question string `json:"question" jsonschema:"the exam question"`
	Answer   string `json:"answer" jsonschema:"the student's answer"`
}

// GradeOutput is the output schema for the grade_answer tool.
type GradeOutput struct {
	Feedback string `json:"feedback"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the reference passages closest to a query",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "grade_answer",
		Description: "Grade a student's answer to a question against the reference material",
	}, s.handleGradeAnswer)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, RetrieveOutput{}, errors.New("query is required")
	}

	k := input.K
	if k <= 0 {
		k = domain.DefaultTopK
	}

	hits, err := s.ports.Index.Query(ctx, input.Query, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(hits)),
		Count:    len(hits),
	}
	for i := range hits {
		output.Passages[i] = PassageOutput{
			ID:       hits[i].ID,
			Text:     hits[i].Document,
			Distance: hits[i].Distance,
			Source:   hits[i].Metadata["source"],
		}
	}

	return nil, output, nil
}

// handleGradeAnswer handles the grade_answer tool invocation.
func (s *Server) handleGradeAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GradeInput,
) (*mcp.CallToolResult, GradeOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, GradeOutput{}, errors.New("question is required")
	}

	feedback, err := s.ports.Query.Answer(ctx, domain.FormatSubmission(input.Question, input.Answer))
	if err != nil {
		return nil, GradeOutput{}, err
	}

	return nil, GradeOutput{Feedback: feedback}, nil
}
