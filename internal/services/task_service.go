package services

import (
	"context"
	"time"

	"uptask/internal/models"
	"uptask/internal/repositories"
)

// TaskService defines the business logic around tasks. The owner id is a
// mandatory parameter everywhere: there is no way to reach a task without
// naming whose task it is supposed to be.
type TaskService interface {
	List(ctx context.Context, ownerID string, filter models.TaskFilter) ([]models.Task, error)
	Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type taskService struct {
	repo repositories.TaskRepository
}

func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) List(ctx context.Context, ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, ownerID, filter)
}

func (s *taskService) Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error) {
	task.OwnerID = ownerID
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDateSet {
		task.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}
