package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-onboarding/internal/access"
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/notification"
	notificationerrors "go-onboarding/internal/notification/errors"
	"go-onboarding/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationService struct {
	notification.Service
	ListForUserFn func(ctx context.Context, p access.Principal, unreadOnly bool) ([]notification.NotificationResponse, error)
	MarkReadFn    func(ctx context.Context, p access.Principal, id uint) (notification.NotificationResponse, error)
}

func (f *fakeNotificationService) ListForUser(ctx context.Context, p access.Principal, unreadOnly bool) ([]notification.NotificationResponse, error) {
	return f.ListForUserFn(ctx, p, unreadOnly)
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, p access.Principal, id uint) (notification.NotificationResponse, error) {
	return f.MarkReadFn(ctx, p, id)
}

type allowAll struct{}

func (allowAll) Enforce(rbac.EnforceRequest) (bool, error) { return true, nil }

func newRouter(svc notification.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Principal(""))
	notification.RegisterRoutes(r.Group("/api"), notification.NewHandler(svc), allowAll{})
	return r
}

func TestNotificationHandler_List(t *testing.T) {
	svc := &fakeNotificationService{
		ListForUserFn: func(ctx context.Context, p access.Principal, unreadOnly bool) ([]notification.NotificationResponse, error) {
			assert.True(t, p.Is(3))
			assert.True(t, unreadOnly)
			return []notification.NotificationResponse{{ID: 1, Message: "hello"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?unread=true", nil)
	req.Header.Set(access.HeaderUserID, "3")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"hello"`)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "ok", path: "/api/v1/notifications/7/read", wantStatus: http.StatusOK},
		{name: "invalid id", path: "/api/v1/notifications/0/read", wantStatus: http.StatusBadRequest},
		{name: "someone else's", path: "/api/v1/notifications/7/read", err: notificationerrors.ErrNotificationNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeNotificationService{
				MarkReadFn: func(ctx context.Context, p access.Principal, id uint) (notification.NotificationResponse, error) {
					assert.Equal(t, uint(7), id)
					return notification.NotificationResponse{ID: id, Read: true}, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set(access.HeaderUserID, "3")
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
