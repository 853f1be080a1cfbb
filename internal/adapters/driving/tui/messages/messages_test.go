package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewSessions, "sessions"},
		{ViewExam, "exam"},
		{ViewReport, "report"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Ordering(t *testing.T) {
	assert.Equal(t, ViewType(0), ViewSessions)
	assert.Less(t, int(ViewExam), int(ViewReport))
}

func TestGradingCompleted(t *testing.T) {
	report := &domain.GradingReport{SessionID: "s-1", Failed: 1}
	msg := GradingCompleted{SessionID: "s-1", Report: report}

	assert.Equal(t, "s-1", msg.SessionID)
	assert.Equal(t, 1, msg.Report.Failed)
	assert.NoError(t, msg.Err)

	failed := GradingCompleted{Err: errors.New("cancelled")}
	assert.Nil(t, failed.Report)
	assert.EqualError(t, failed.Err, "cancelled")
}
