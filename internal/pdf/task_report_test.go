package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptask/internal/models"
)

func TestReportGenerator_TaskReport(t *testing.T) {
	gen := NewReportGenerator()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	tasks := []models.Task{
		{ID: "t1", Title: "Pay rent", DueDate: &due, Status: models.StatusPending, Priority: models.PriorityHigh},
		{ID: "t2", Title: "Water plants", Status: models.StatusCompleted, Priority: models.PriorityLow},
	}

	report, err := gen.TaskReport(user, tasks)
	require.NoError(t, err)
	require.NotEmpty(t, report)
	assert.Equal(t, "%PDF", string(report[:4]))
}

func TestReportGenerator_EmptyCollection(t *testing.T) {
	gen := NewReportGenerator()

	report, err := gen.TaskReport(&models.User{Name: "Alice", Email: "alice@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(report[:4]))
}
