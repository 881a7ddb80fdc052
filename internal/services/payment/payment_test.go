package payment_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/models"
	"github.com/magabrotheeeer/learning-platform/internal/services/payment"
)

type mockRepo struct {
	GetCourseFunc     func(ctx context.Context, id int64) (*models.Course, error)
	GetLessonFunc     func(ctx context.Context, id int64) (*models.Lesson, error)
	CreatePaymentFunc func(ctx context.Context, p models.Payment) (*models.Payment, error)
	ListPaymentsFunc  func(ctx context.Context, f models.PaymentFilter, limit, offset int) ([]*models.Payment, error)
}

func (m *mockRepo) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return m.GetCourseFunc(ctx, id)
}

func (m *mockRepo) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	return m.GetLessonFunc(ctx, id)
}

func (m *mockRepo) CreatePayment(ctx context.Context, p models.Payment) (*models.Payment, error) {
	return m.CreatePaymentFunc(ctx, p)
}

func (m *mockRepo) ListPayments(ctx context.Context, f models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	return m.ListPaymentsFunc(ctx, f, limit, offset)
}

type mockProvider struct {
	CreateProductFunc         func(ctx context.Context, name, description string) (string, error)
	CreatePriceFunc           func(ctx context.Context, productID string, unitAmount int64, currency string) (string, error)
	CreateCheckoutSessionFunc func(ctx context.Context, priceID string, quantity int, successURL, cancelURL string) (string, string, error)
}

func (m *mockProvider) CreateProduct(ctx context.Context, name, description string) (string, error) {
	return m.CreateProductFunc(ctx, name, description)
}

func (m *mockProvider) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	return m.CreatePriceFunc(ctx, productID, unitAmount, currency)
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, priceID string, quantity int, successURL, cancelURL string) (string, string, error) {
	return m.CreateCheckoutSessionFunc(ctx, priceID, quantity, successURL, cancelURL)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func testConfig() payment.Config {
	return payment.Config{
		Currency:   "rub",
		SuccessURL: "http://localhost:8080/success",
		CancelURL:  "http://localhost:8080/cancel",
	}
}

func TestCreateCheckout_Course(t *testing.T) {
	actor := &models.User{ID: 5, Email: "a@example.com", Role: models.RoleUser}

	repo := &mockRepo{
		GetCourseFunc: func(_ context.Context, id int64) (*models.Course, error) {
			require.Equal(t, int64(42), id)
			return &models.Course{ID: 42, Title: "X", Price: 1000}, nil
		},
		CreatePaymentFunc: func(_ context.Context, p models.Payment) (*models.Payment, error) {
			require.Equal(t, int64(5), p.UserID)
			require.Equal(t, int64(1000), p.Amount)
			require.NotNil(t, p.CourseID)
			require.Equal(t, int64(42), *p.CourseID)
			require.Nil(t, p.LessonID)
			require.Equal(t, models.PaymentMethodTransfer, p.PaymentMethod)
			p.ID = 1
			p.PaymentDate = time.Now()
			return &p, nil
		},
	}
	provider := &mockProvider{
		CreateProductFunc: func(_ context.Context, name, description string) (string, error) {
			require.Equal(t, "Course: X", name)
			// Курс без описания — описание продукта совпадает с названием.
			require.Equal(t, "Course: X", description)
			return "prod_1", nil
		},
		CreatePriceFunc: func(_ context.Context, productID string, unitAmount int64, currency string) (string, error) {
			require.Equal(t, "prod_1", productID)
			require.Equal(t, int64(100000), unitAmount, "price must be converted to minor units")
			require.Equal(t, "rub", currency)
			return "price_1", nil
		},
		CreateCheckoutSessionFunc: func(_ context.Context, priceID string, quantity int, successURL, cancelURL string) (string, string, error) {
			require.Equal(t, "price_1", priceID)
			require.Equal(t, 1, quantity)
			return "sess_1", "https://pay/sess_1", nil
		},
	}

	svc := payment.New(repo, provider, testConfig(), makeLogger())
	res, err := svc.CreateCheckout(context.Background(), actor, payment.TargetCourse, 42)
	require.NoError(t, err)

	assert.Equal(t, "https://pay/sess_1", res.Link)
	assert.Equal(t, int64(1000), res.Payment.Amount)
	require.NotNil(t, res.Payment.SessionID)
	assert.Equal(t, "sess_1", *res.Payment.SessionID)
	require.NotNil(t, res.Payment.Link)
	assert.Equal(t, "https://pay/sess_1", *res.Payment.Link)
}

func TestCreateCheckout_LessonWithDescription(t *testing.T) {
	actor := &models.User{ID: 7, Role: models.RoleUser}

	repo := &mockRepo{
		GetLessonFunc: func(_ context.Context, id int64) (*models.Lesson, error) {
			return &models.Lesson{ID: id, CourseID: 1, Title: "Intro", Description: "first steps", Price: 300}, nil
		},
		CreatePaymentFunc: func(_ context.Context, p models.Payment) (*models.Payment, error) {
			require.Nil(t, p.CourseID)
			require.NotNil(t, p.LessonID)
			require.Equal(t, int64(9), *p.LessonID)
			require.Equal(t, int64(300), p.Amount)
			return &p, nil
		},
	}
	provider := &mockProvider{
		CreateProductFunc: func(_ context.Context, name, description string) (string, error) {
			require.Equal(t, "Lesson: Intro", name)
			require.Equal(t, "first steps", description)
			return "prod_2", nil
		},
		CreatePriceFunc: func(_ context.Context, _ string, unitAmount int64, _ string) (string, error) {
			require.Equal(t, int64(30000), unitAmount)
			return "price_2", nil
		},
		CreateCheckoutSessionFunc: func(_ context.Context, _ string, _ int, _, _ string) (string, string, error) {
			return "sess_2", "https://pay/sess_2", nil
		},
	}

	svc := payment.New(repo, provider, testConfig(), makeLogger())
	res, err := svc.CreateCheckout(context.Background(), actor, payment.TargetLesson, 9)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/sess_2", res.Link)
}

func TestCreateCheckout_ZeroPriceAllowed(t *testing.T) {
	repo := &mockRepo{
		GetCourseFunc: func(_ context.Context, id int64) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Free", Price: 0}, nil
		},
		CreatePaymentFunc: func(_ context.Context, p models.Payment) (*models.Payment, error) {
			require.Equal(t, int64(0), p.Amount)
			return &p, nil
		},
	}
	provider := &mockProvider{
		CreateProductFunc: func(_ context.Context, _, _ string) (string, error) { return "prod_3", nil },
		CreatePriceFunc: func(_ context.Context, _ string, unitAmount int64, _ string) (string, error) {
			require.Equal(t, int64(0), unitAmount)
			return "price_3", nil
		},
		CreateCheckoutSessionFunc: func(_ context.Context, _ string, _ int, _, _ string) (string, string, error) {
			return "sess_3", "https://pay/sess_3", nil
		},
	}

	svc := payment.New(repo, provider, testConfig(), makeLogger())
	_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, payment.TargetCourse, 3)
	assert.NoError(t, err)
}

func TestCreateCheckout_TargetNotFound(t *testing.T) {
	repo := &mockRepo{
		GetCourseFunc: func(_ context.Context, _ int64) (*models.Course, error) {
			return nil, apperr.NotFound("course")
		},
		CreatePaymentFunc: func(_ context.Context, _ models.Payment) (*models.Payment, error) {
			t.Fatal("payment must not be created for a missing target")
			return nil, nil
		},
	}
	svc := payment.New(repo, &mockProvider{}, testConfig(), makeLogger())

	_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, payment.TargetCourse, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateCheckout_MissingSelector(t *testing.T) {
	svc := payment.New(&mockRepo{}, &mockProvider{}, testConfig(), makeLogger())

	_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, "", 1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateCheckout_ProviderFailureWritesNothing(t *testing.T) {
	created := false
	repo := &mockRepo{
		GetCourseFunc: func(_ context.Context, id int64) (*models.Course, error) {
			return &models.Course{ID: id, Title: "X", Price: 1000}, nil
		},
		CreatePaymentFunc: func(_ context.Context, p models.Payment) (*models.Payment, error) {
			created = true
			return &p, nil
		},
	}

	t.Run("price step fails", func(t *testing.T) {
		provider := &mockProvider{
			CreateProductFunc: func(_ context.Context, _, _ string) (string, error) { return "prod_1", nil },
			CreatePriceFunc: func(_ context.Context, _ string, _ int64, _ string) (string, error) {
				return "", errors.Join(apperr.ErrProvider, errors.New("boom"))
			},
		}
		svc := payment.New(repo, provider, testConfig(), makeLogger())
		_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, payment.TargetCourse, 1)
		require.ErrorIs(t, err, apperr.ErrProvider)
		assert.False(t, created, "no payment row on provider failure")
	})

	t.Run("session step fails", func(t *testing.T) {
		provider := &mockProvider{
			CreateProductFunc: func(_ context.Context, _, _ string) (string, error) { return "prod_1", nil },
			CreatePriceFunc:   func(_ context.Context, _ string, _ int64, _ string) (string, error) { return "price_1", nil },
			CreateCheckoutSessionFunc: func(_ context.Context, _ string, _ int, _, _ string) (string, string, error) {
				return "", "", errors.Join(apperr.ErrProvider, errors.New("down"))
			},
		}
		svc := payment.New(repo, provider, testConfig(), makeLogger())
		_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, payment.TargetCourse, 1)
		require.ErrorIs(t, err, apperr.ErrProvider)
		assert.False(t, created)
	})
}

func TestCreateCheckout_NotIdempotent(t *testing.T) {
	var rows int
	repo := &mockRepo{
		GetCourseFunc: func(_ context.Context, id int64) (*models.Course, error) {
			return &models.Course{ID: id, Title: "X", Price: 500}, nil
		},
		CreatePaymentFunc: func(_ context.Context, p models.Payment) (*models.Payment, error) {
			rows++
			return &p, nil
		},
	}
	var sessions int
	provider := &mockProvider{
		CreateProductFunc: func(_ context.Context, _, _ string) (string, error) { return "prod", nil },
		CreatePriceFunc:   func(_ context.Context, _ string, _ int64, _ string) (string, error) { return "price", nil },
		CreateCheckoutSessionFunc: func(_ context.Context, _ string, _ int, _, _ string) (string, string, error) {
			sessions++
			return "sess", "https://pay/sess", nil
		},
	}

	svc := payment.New(repo, provider, testConfig(), makeLogger())
	for range 2 {
		_, err := svc.CreateCheckout(context.Background(), &models.User{ID: 1}, payment.TargetCourse, 1)
		require.NoError(t, err)
	}
	// Повторный запрос для той же цели создаёт новую сессию и новую запись.
	assert.Equal(t, 2, sessions)
	assert.Equal(t, 2, rows)
}
