// Package prompts holds the grading prompt as a typed template with named
// slots. Templates are validated when constructed and rendered with the
// langchaingo prompt renderer.
package prompts

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/tmc/langchaingo/prompts"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

// Slot names every grading template must declare.
const (
	SlotContext  = "context"
	SlotQuestion = "question"
)

//go:embed grading.tmpl
var gradingRubric string

// Template is a validated prompt with {{.context}} and {{.question}} slots.
// It is immutable and safe for concurrent use.
type Template struct {
	prompt prompts.PromptTemplate
}

// New parses text and checks both slots are present.
func New(text string) (*Template, error) {
	for _, slot := range []string{SlotContext, SlotQuestion} {
		if !slotPattern(slot).MatchString(text) {
			return nil, fmt.Errorf("%w: template is missing the {{.%s}} slot", domain.ErrInvalidInput, slot)
		}
	}

	t := &Template{
		prompt: prompts.NewPromptTemplate(text, []string{SlotContext, SlotQuestion}),
	}

	// Catch parse errors up front rather than on first use.
	if _, err := t.Render("", ""); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return t, nil
}

// Grading returns the built-in grading rubric template.
func Grading() *Template {
	t, err := New(gradingRubric)
	if err != nil {
		panic(fmt.Sprintf("prompts: built-in grading template is invalid: %v", err))
	}
	return t
}

// Render fills the slots. It has no side effects.
func (t *Template) Render(context, question string) (string, error) {
	out, err := t.prompt.Format(map[string]any{
		SlotContext:  context,
		SlotQuestion: question,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return out, nil
}

// Text returns the unrendered template.
func (t *Template) Text() string {
	return t.prompt.Template
}

func slotPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{-?\s*\.` + regexp.QuoteMeta(name) + `\s*-?\}\}`)
}
