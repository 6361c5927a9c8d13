package task_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-onboarding/internal/access"
	accesserrors "go-onboarding/internal/access/errors"
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/task"
	taskerrors "go-onboarding/internal/task/errors"
	"go-onboarding/internal/week"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTaskService struct {
	CreateFn        func(ctx context.Context, p access.Principal, weekID uint, req task.CreateTaskRequest) (week.TaskResponse, error)
	GetFn           func(ctx context.Context, p access.Principal, id uint) (week.TaskResponse, error)
	UpdateNotesFn   func(ctx context.Context, p access.Principal, id uint, notes string) (week.TaskResponse, error)
	UpdateDueDateFn func(ctx context.Context, p access.Principal, id uint, raw string) (task.DueDateResponse, error)
	UpdateStatusFn  func(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error)
	DeleteFn        func(ctx context.Context, p access.Principal, id uint) error
}

func (f *fakeTaskService) Create(ctx context.Context, p access.Principal, weekID uint, req task.CreateTaskRequest) (week.TaskResponse, error) {
	return f.CreateFn(ctx, p, weekID, req)
}
func (f *fakeTaskService) Get(ctx context.Context, p access.Principal, id uint) (week.TaskResponse, error) {
	return f.GetFn(ctx, p, id)
}
func (f *fakeTaskService) UpdateNotes(ctx context.Context, p access.Principal, id uint, notes string) (week.TaskResponse, error) {
	return f.UpdateNotesFn(ctx, p, id, notes)
}
func (f *fakeTaskService) UpdateDueDate(ctx context.Context, p access.Principal, id uint, raw string) (task.DueDateResponse, error) {
	return f.UpdateDueDateFn(ctx, p, id, raw)
}
func (f *fakeTaskService) UpdateStatus(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error) {
	return f.UpdateStatusFn(ctx, p, id, label)
}
func (f *fakeTaskService) Delete(ctx context.Context, p access.Principal, id uint) error {
	return f.DeleteFn(ctx, p, id)
}

func newRouter(svc task.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Principal(""))
	task.RegisterRoutes(r, task.NewHandler(svc))
	return r
}

func TestTaskHandler_Create(t *testing.T) {
	svc := &fakeTaskService{
		CreateFn: func(ctx context.Context, p access.Principal, weekID uint, req task.CreateTaskRequest) (week.TaskResponse, error) {
			assert.Equal(t, uint(4), weekID)
			assert.Equal(t, access.RoleManager, p.Role)
			assert.Equal(t, "Meet the team", req.Goal)
			return week.TaskResponse{ID: 11, WeekID: weekID, Goal: req.Goal, Label: req.Goal}, nil
		},
	}
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/weeks/4/tasks", strings.NewReader(`{"goal":"Meet the team"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(access.HeaderUserRole, "manager")
	req.Header.Set(access.HeaderUserID, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":11`)
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	t.Run("form post", func(t *testing.T) {
		svc := &fakeTaskService{
			UpdateStatusFn: func(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error) {
				assert.Equal(t, uint(7), id)
				assert.Equal(t, "Complete", label)
				return week.TaskResponse{ID: id, Status: label}, nil
			},
		}
		r := newRouter(svc)

		form := url.Values{"status": {"Complete"}}
		req := httptest.NewRequest(http.MethodPost, "/tasks/7/status", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Complete"`)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &fakeTaskService{
			UpdateStatusFn: func(ctx context.Context, p access.Principal, id uint, label string) (week.TaskResponse, error) {
				_, err := task.ParseStatus(label)
				return week.TaskResponse{}, err
			},
		}
		r := newRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/tasks/7/status", strings.NewReader(`{"status":"Done"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid status")
		assert.Contains(t, w.Body.String(), "allowed")
	})
}

func TestTaskHandler_UpdateDueDate(t *testing.T) {
	due := "2025-01-13"
	svc := &fakeTaskService{
		UpdateDueDateFn: func(ctx context.Context, p access.Principal, id uint, raw string) (task.DueDateResponse, error) {
			assert.Equal(t, "2025-01-11", raw)
			return task.DueDateResponse{Task: week.TaskResponse{ID: id, DueDate: &due}, Adjusted: true}, nil
		},
	}
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tasks/3/due-date", strings.NewReader(`{"due_date":"2025-01-11"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"adjusted":true`)
	assert.Contains(t, w.Body.String(), `"due_date":"2025-01-13"`)
}

func TestTaskHandler_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		r := newRouter(&fakeTaskService{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid task ID")
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeTaskService{
			DeleteFn: func(ctx context.Context, p access.Principal, id uint) error {
				return accesserrors.ErrWeekForbidden
			},
		}
		r := newRouter(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tasks/5", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeTaskService{
			GetFn: func(ctx context.Context, p access.Principal, id uint) (week.TaskResponse, error) {
				return week.TaskResponse{}, taskerrors.ErrTaskNotFound
			},
		}
		r := newRouter(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/5", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
