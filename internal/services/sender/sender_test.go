package sender_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/learning-platform/internal/models"
	"github.com/magabrotheeeer/learning-platform/internal/services/sender"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockRepository) ListCourseSubscribers(ctx context.Context, courseID int64) ([]string, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func expectEmailTo(transport *MockTransport, addr string) *MockSMTPClient {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
	mockClient.On("Rcpt", addr).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
	return mockClient
}

func TestSendCourseUpdatedNotification(t *testing.T) {
	course := &models.Course{ID: 10, Title: "Go с нуля"}

	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockRepository, *MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - one email per subscriber",
			body: []byte(`{"course_id":10}`),
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				r.On("GetCourse", mock.Anything, int64(10)).Return(course, nil).Once()
				r.On("ListCourseSubscribers", mock.Anything, int64(10)).
					Return([]string{"first@example.com"}, nil).Once()
				expectEmailTo(tr, "first@example.com")
			},
			expectedError: false,
		},
		{
			name: "course already removed - message is dropped",
			body: []byte(`{"course_id":404}`),
			setupMocks: func(r *MockRepository, _ *MockTransport) {
				r.On("GetCourse", mock.Anything, int64(404)).
					Return(nil, apperr.NotFound("course")).Once()
			},
			expectedError: false,
		},
		{
			name: "no subscribers - nothing is sent",
			body: []byte(`{"course_id":10}`),
			setupMocks: func(r *MockRepository, _ *MockTransport) {
				r.On("GetCourse", mock.Anything, int64(10)).Return(course, nil).Once()
				r.On("ListCourseSubscribers", mock.Anything, int64(10)).
					Return([]string{}, nil).Once()
			},
			expectedError: false,
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockRepository, _ *MockTransport) {
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "SMTP connection error is returned for retry",
			body: []byte(`{"course_id":10}`),
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				r.On("GetCourse", mock.Anything, int64(10)).Return(course, nil).Once()
				r.On("ListCourseSubscribers", mock.Anything, int64(10)).
					Return([]string{"first@example.com"}, nil).Once()
				tr.On("GetSMTPUser").Return("noreply@example.com")
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)
			service := sender.New(repo, transport, newNoopLogger())

			tt.setupMocks(repo, transport)

			err := service.SendCourseUpdatedNotification(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}
