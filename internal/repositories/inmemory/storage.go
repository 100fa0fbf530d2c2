package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"uptask/internal/models"
)

// Storage is a map-backed implementation of both repositories. It backs the
// service when no database is reachable and is what the tests run against.
type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
	}
}

// ---- users ----

func (s *Storage) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *Storage) UpdateTelegramLink(ctx context.Context, userID string, chatID int64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[userID]
	if !exists {
		return models.ErrUserNotFound
	}
	user.TelegramChatID = chatID
	user.NotifyTelegram = enabled
	s.users[userID] = user
	return nil
}

func (s *Storage) GetTelegramSettings(ctx context.Context, userID string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[userID]
	if !exists {
		return 0, false, models.ErrUserNotFound
	}
	return user.TelegramChatID, user.NotifyTelegram, nil
}

// ---- tasks ----

func (s *Storage) Store(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) FindByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, exists := s.tasks[id]
	if !exists || task.OwnerID != ownerID {
		return nil, models.ErrTaskNotFound
	}
	return &task, nil
}

func (s *Storage) FindAll(ctx context.Context, ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		tasks = append(tasks, t)
	}
	sortTasks(tasks)
	return tasks, nil
}

// sortTasks applies the same ordering as the SQL repository: due date
// ascending with null due dates last, creation time as tie-break.
func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}

func (s *Storage) Update(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, exists := s.tasks[task.ID]
	if !exists || existing.OwnerID != task.OwnerID {
		return models.ErrTaskNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, exists := s.tasks[id]
	if !exists || existing.OwnerID != ownerID {
		return models.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Storage) ListDueSoon(ctx context.Context, until time.Time, limit int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.DueDate == nil || t.Status != models.StatusPending {
			continue
		}
		if t.LastRemindedAt != nil {
			continue
		}
		if t.DueDate.After(until) {
			continue
		}
		out = append(out, t)
	}
	sortTasks(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Storage) MarkReminded(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, exists := s.tasks[id]
	if !exists {
		return models.ErrTaskNotFound
	}
	now := time.Now()
	task.LastRemindedAt = &now
	s.tasks[id] = task
	return nil
}
