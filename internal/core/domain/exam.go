package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionStatus is the lifecycle state of an exam session.
type SessionStatus string

// Session states.
const (
	// SessionPublished means questions are available and no answers were submitted.
	SessionPublished SessionStatus = "published"

	// SessionGraded means answers were submitted and a report is attached.
	SessionGraded SessionStatus = "graded"
)

// Question is a single exam question.
type Question struct {
	// ID uniquely identifies the question within its session.
	ID string `json:"id"`

	// Position is the zero-based order of the question.
	Position int `json:"position"`

	// Text is the question as published.
	Text string `json:"text"`
}

// ExamSession is handed from the publishing teacher to the answering
// student. It is created at publish time and consumed at submission time.
type ExamSession struct {
	// ID is the session identifier.
	ID string `json:"id"`

	// Title is a human-readable label.
	Title string `json:"title"`

	// Questions are ordered by Position.
	Questions []Question `json:"questions"`

	// Status is the lifecycle state.
	Status SessionStatus `json:"status"`

	// PublishedAt is when the session was created.
	PublishedAt time.Time `json:"published_at"`

	// GradedAt is when the submission was graded.
	GradedAt *time.Time `json:"graded_at,omitempty"`

	// Report holds grading results once the session is graded.
	Report *GradingReport `json:"report,omitempty"`
}

// Question returns the question with the given id.
func (s *ExamSession) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// ParseQuestions splits a teacher's input into questions, one per
// non-empty line. IDs are left empty for the caller to assign.
func ParseQuestions(text string) []Question {
	var questions []Question
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, Question{
			Position: len(questions),
			Text:     line,
		})
	}
	return questions
}

// FormatSubmission packages a question and a student answer into the
// query string sent to the grading engine.
func FormatSubmission(question, answer string) string {
	return fmt.Sprintf("Question: %s Answer: %s", question, answer)
}

// GradeResult is the outcome of grading one question.
type GradeResult struct {
	// QuestionID is the graded question.
	QuestionID string `json:"question_id"`

	// Question is the question text.
	Question string `json:"question"`

	// Answer is the student's answer as submitted.
	Answer string `json:"answer"`

	// Feedback is the model's raw Markdown output.
	Feedback string `json:"feedback,omitempty"`

	// Error is the failure message when grading this question failed.
	Error string `json:"error,omitempty"`

	// Retriable is set when the failure was transient.
	Retriable bool `json:"retriable,omitempty"`

	// Duration is how long grading took.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether grading this question failed.
func (r GradeResult) Failed() bool {
	return r.Error != ""
}

// Display renders the result for an end user. Failures are shown inline.
func (r GradeResult) Display() string {
	if r.Failed() {
		return "Error: " + r.Error
	}
	return r.Feedback
}

// GradingReport collects the results of one submission.
type GradingReport struct {
	// SessionID is the graded session.
	SessionID string `json:"session_id"`

	// Results are in question order.
	Results []GradeResult `json:"results"`

	// Failed counts results with an error.
	Failed int `json:"failed"`

	// Duration is the wall-clock time for the whole batch.
	Duration time.Duration `json:"duration"`
}
