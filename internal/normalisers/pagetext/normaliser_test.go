package pagetext

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalise(t *testing.T) {
	n := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "page of footer",
			input:    "Attendance rules\nPage 3 of 12",
			expected: "Attendance rules",
		},
		{
			name:     "page footer",
			input:    "Page 7\nExams are held twice a year.",
			expected: "Exams are held twice a year.",
		},
		{
			name:     "lowercase page kept",
			input:    "see page 4",
			expected: "see page 4",
		},
		{
			name:     "newline runs collapse",
			input:    "a\n\n\nb\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "dot leaders removed",
			input:    "Chapter 1.........5",
			expected: "Chapter 15",
		},
		{
			name:     "three dots kept",
			input:    "and so on...",
			expected: "and so on...",
		},
		{
			name:     "whitespace trimmed",
			input:    "  \n\t body \n ",
			expected: "body",
		},
		{
			name:     "long dot run removed whole",
			input:    "..x.....x..",
			expected: "..xx..",
		},
		{
			name:     "removal joining dot runs",
			input:    "..Page 2..",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalise(tt.input))
		})
	}
}

func TestNormalise_Idempotent(t *testing.T) {
	n := New()
	r := rand.New(rand.NewSource(42))
	parts := []string{"Page ", "1", "2", " of ", ".", "..", "\n", " ", "P", "age", "x", "Rules"}

	for i := 0; i < 2000; i++ {
		var b strings.Builder
		for j := r.Intn(30); j >= 0; j-- {
			b.WriteString(parts[r.Intn(len(parts))])
		}
		once := n.Normalise(b.String())
		assert.Equal(t, once, n.Normalise(once), "input %q", b.String())
		assert.NotContains(t, once, "\n\n")
		assert.NotContains(t, once, "....")
	}
}

func TestJoinPages(t *testing.T) {
	n := New()

	got := n.JoinPages([]string{"Intro\n\nPage 1", "Rules........\nPage 2 of 2"})

	assert.Equal(t, "Intro\nRules\n", got)
}
