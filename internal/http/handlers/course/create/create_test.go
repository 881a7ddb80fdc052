package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actor *models.User, req models.DummyCourse) (*models.Course, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func int64Ptr(v int64) *int64 { return &v }

func TestCourseCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		authenticated  bool
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "success - create course",
			requestBody:   models.DummyCourse{Title: "Go", Description: "basics", Price: 1000},
			authenticated: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.Anything,
					models.DummyCourse{Title: "Go", Description: "basics", Price: 1000}).
					Return(&models.Course{ID: 42, Title: "Go", Description: "basics", Price: 1000, OwnerID: int64Ptr(1)}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody: `{"status":"OK","data":{"course":{"id":42,"title":"Go","description":"basics",` +
				`"price":1000,"owner_id":1}}}`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			authenticated:  true,
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing title",
			requestBody:    models.DummyCourse{Price: 500},
			authenticated:  true,
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Title is a required field"}`,
		},
		{
			name:           "unauthenticated",
			requestBody:    models.DummyCourse{Title: "Go"},
			authenticated:  false,
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:          "moderator denied",
			requestBody:   models.DummyCourse{Title: "Go"},
			authenticated: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.Anything, models.DummyCourse{Title: "Go"}).
					Return(nil, apperr.PermissionDenied("moderators cannot create content")).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"moderators cannot create content: permission denied"}`,
		},
		{
			name:          "forbidden link in description",
			requestBody:   models.DummyCourse{Title: "Go", Description: "see https://evil.example"},
			authenticated: true,
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, mock.Anything,
					models.DummyCourse{Title: "Go", Description: "see https://evil.example"}).
					Return(nil, apperr.Validation("link to host evil.example is not allowed")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"link to host evil.example is not allowed: invalid input"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.authenticated {
				ctx = context.WithValue(ctx, middlewarectx.UserEmail, "user@example.com")
				ctx = context.WithValue(ctx, middlewarectx.UserRole, "user")
				ctx = context.WithValue(ctx, middlewarectx.UserID, int64(1))
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}
