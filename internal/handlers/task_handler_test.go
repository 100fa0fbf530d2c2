package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"uptask/internal/middleware"
	"uptask/internal/models"
)

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) List(ctx context.Context, ownerID string, filter models.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) Create(ctx context.Context, ownerID string, task *models.Task) (*models.Task, error) {
	args := m.Called(ctx, ownerID, task)
	created, _ := args.Get(0).(*models.Task)
	return created, args.Error(1)
}

func (m *mockTaskService) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, ownerID, id, patch)
	updated, _ := args.Get(0).(*models.Task)
	return updated, args.Error(1)
}

func (m *mockTaskService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// fakeAuth injects the user id the real auth middleware would have set.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func newTaskRouter(svc *mockTaskService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTaskHandler(svc, nil, nil)
	r := gin.New()
	grp := r.Group("/api/tasks", fakeAuth(userID))
	grp.GET("", h.List)
	grp.POST("", h.Create)
	grp.PUT("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)
	return r
}

func TestTaskHandler_List(t *testing.T) {
	svc := &mockTaskService{}
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.On("List", mock.Anything, "user-1", models.TaskFilter{}).Return([]models.Task{
		{ID: "t1", OwnerID: "user-1", Title: "First", DueDate: &due, Status: models.StatusPending, Priority: models.PriorityMedium},
	}, nil)

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Title)
	assert.Equal(t, "user-1", tasks[0].OwnerID)
	svc.AssertExpectations(t)
}

func TestTaskHandler_ListNilBecomesEmptyArray(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("List", mock.Anything, "user-1", models.TaskFilter{}).Return(nil, nil)

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestTaskHandler_ListStatusFilter(t *testing.T) {
	svc := &mockTaskService{}
	completed := models.StatusCompleted
	svc.On("List", mock.Anything, "user-1", models.TaskFilter{Status: &completed}).Return([]models.Task{}, nil)

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks?status=completed", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_ListInvalidStatusFilter(t *testing.T) {
	svc := &mockTaskService{}

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks?status=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status filter")
	svc.AssertNotCalled(t, "List")
}

func TestTaskHandler_Create(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(task *models.Task) bool {
		return task.Title == "New task"
	})).Return(&models.Task{ID: "t1", OwnerID: "user-1", Title: "New task", Status: models.StatusPending, Priority: models.PriorityMedium}, nil)

	body, _ := json.Marshal(map[string]string{"title": "New task"})
	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "t1", created.ID)
	svc.AssertExpectations(t)
}

func TestTaskHandler_CreateMissingTitle(t *testing.T) {
	svc := &mockTaskService{}

	body, _ := json.Marshal(map[string]string{"description": "no title"})
	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
	svc.AssertNotCalled(t, "Create")
}

func TestTaskHandler_CreateInvalidDueDate(t *testing.T) {
	svc := &mockTaskService{}

	body, _ := json.Marshal(map[string]string{"title": "Dated", "dueDate": "not-a-date"})
	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid dueDate")
	svc.AssertNotCalled(t, "Create")
}

func TestTaskHandler_UpdateNotFound(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("Update", mock.Anything, "user-1", "ghost", mock.Anything).Return(nil, models.ErrTaskNotFound)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/ghost", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Task not found")
}

func TestTaskHandler_UpdateBuildsPatch(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("Update", mock.Anything, "user-1", "t1", mock.MatchedBy(func(patch models.TaskPatch) bool {
		return patch.Status != nil && *patch.Status == models.StatusCompleted &&
			patch.Title == nil && !patch.DueDateSet
	})).Return(&models.Task{ID: "t1", OwnerID: "user-1", Title: "First", Status: models.StatusCompleted}, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/t1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_Delete(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("Delete", mock.Anything, "user-1", "t1").Return(nil)

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tasks/t1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Task deleted")
	svc.AssertExpectations(t)
}

func TestTaskHandler_DeleteNotFound(t *testing.T) {
	svc := &mockTaskService{}
	svc.On("Delete", mock.Anything, "user-1", "ghost").Return(models.ErrTaskNotFound)

	r := newTaskRouter(svc, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tasks/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Task not found")
}
