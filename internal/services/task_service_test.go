package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptask/internal/models"
	"uptask/internal/repositories/inmemory"
)

func newTaskService() TaskService {
	return NewTaskService(inmemory.NewStorage())
}

func TestTaskService_CreateAppliesDefaults(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &models.Task{Title: "Write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestTaskService_CreateKeepsExplicitFields(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "owner-1", &models.Task{
		Title:    "Ship release",
		DueDate:  &due,
		Status:   models.StatusCompleted,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, created.Status)
	assert.Equal(t, models.PriorityHigh, created.Priority)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Equal(due))
}

func TestTaskService_UpdatePartial(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &models.Task{Title: "Original", Description: "keep me"})
	require.NoError(t, err)

	status := models.StatusCompleted
	updated, err := svc.Update(ctx, "owner-1", created.ID, models.TaskPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
}

func TestTaskService_UpdateClearsDueDate(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "owner-1", &models.Task{Title: "Dated", DueDate: &due})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	// DueDateSet with a nil value clears the date
	updated, err := svc.Update(ctx, "owner-1", created.ID, models.TaskPatch{DueDateSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	// an empty patch leaves everything alone
	again, err := svc.Update(ctx, "owner-1", created.ID, models.TaskPatch{})
	require.NoError(t, err)
	assert.Nil(t, again.DueDate)
	assert.Equal(t, "Dated", again.Title)
}

func TestTaskService_ForeignOwnerIsNotFound(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &models.Task{Title: "Private"})
	require.NoError(t, err)

	status := models.StatusCompleted
	_, err = svc.Update(ctx, "owner-2", created.ID, models.TaskPatch{Status: &status})
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	err = svc.Delete(ctx, "owner-2", created.ID)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	// the task survives the foreign attempts
	tasks, err := svc.List(ctx, "owner-1", models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_Delete(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", &models.Task{Title: "Throwaway"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))

	assert.ErrorIs(t, svc.Delete(ctx, "owner-1", created.ID), models.ErrTaskNotFound)

	tasks, err := svc.List(ctx, "owner-1", models.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
