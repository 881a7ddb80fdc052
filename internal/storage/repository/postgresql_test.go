package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, uid, err := storage.RegisterUser(ctx, "student@example.com", "hashedpassword", models.RoleUser)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = uuid.Parse(uid)
	assert.NoError(t, err, "uid must be a valid UUID")

	user, err := storage.GetUserByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, uid, user.UID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Nil(t, user.LastLogin)

	// Повторная регистрация с тем же email
	_, _, err = storage.RegisterUser(ctx, "student@example.com", "otherhash", models.RoleUser)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStorage_GetUser_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUser(context.Background(), 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_UpdateLastLogin(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)

	err := storage.UpdateLastLogin(ctx, userID)
	require.NoError(t, err)

	user, err := storage.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, time.Now(), *user.LastLogin, time.Minute)
}

func TestStorage_UpdateProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)

	city := "Kazan"
	rowsAffected, err := storage.UpdateProfile(ctx, userID, models.UpdateProfileRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	// Незаполненные поля не затираются
	phone := "+79991234567"
	rowsAffected, err = storage.UpdateProfile(ctx, userID, models.UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	user, err := storage.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user.City)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "Kazan", *user.City)
	assert.Equal(t, "+79991234567", *user.Phone)
	assert.Nil(t, user.Avatar)
}

func TestStorage_CourseCRUD(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerID := factory.CreateUser(t, "author@example.com", models.RoleUser)

	id, err := storage.CreateCourse(ctx, models.Course{
		Title:       "Go для начинающих",
		Description: "Базовый курс",
		Price:       5000,
		OwnerID:     &ownerID,
	})
	require.NoError(t, err)

	got, err := storage.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Go для начинающих", got.Title)
	assert.Equal(t, int64(5000), got.Price)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, ownerID, *got.OwnerID)

	rowsAffected, err := storage.UpdateCourse(ctx, id, models.DummyCourse{
		Title: "Go для продолжающих",
		Price: 7000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	got, err = storage.GetCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Go для продолжающих", got.Title)
	assert.Equal(t, int64(7000), got.Price)

	rowsAffected, err = storage.RemoveCourse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	_, err = storage.GetCourse(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = storage.GetCourse(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_ListCoursesByOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	firstOwner := factory.CreateUser(t, "first@example.com", models.RoleUser)
	secondOwner := factory.CreateUser(t, "second@example.com", models.RoleUser)

	factory.CreateCourse(t, "Курс первого автора", 1000, &firstOwner)
	factory.CreateCourse(t, "Ещё курс первого автора", 2000, &firstOwner)
	factory.CreateCourse(t, "Курс второго автора", 3000, &secondOwner)

	all, err := storage.ListCourses(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := storage.ListCoursesByOwner(ctx, firstOwner, 10, 0)
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, course := range own {
		require.NotNil(t, course.OwnerID)
		assert.Equal(t, firstOwner, *course.OwnerID)
	}

	paged, err := storage.ListCourses(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestStorage_ToggleSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, nil)

	// Первое переключение создаёт подписку
	created, err := storage.ToggleSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, created)
	verify.VerifySubscriptionExists(t, userID, courseID, true)

	subscribed, err := storage.IsSubscribed(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// Второе переключение удаляет её
	created, err = storage.ToggleSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.False(t, created)
	verify.VerifySubscriptionExists(t, userID, courseID, false)

	// Третье переключение создаёт заново
	created, err = storage.ToggleSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, created)
	verify.VerifySubscriptionExists(t, userID, courseID, true)
}

func TestStorage_ListCourseSubscribers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, nil)
	otherCourseID := factory.CreateCourse(t, "Другой курс", 3000, nil)

	firstID := factory.CreateUser(t, "first@example.com", models.RoleUser)
	secondID := factory.CreateUser(t, "second@example.com", models.RoleUser)
	thirdID := factory.CreateUser(t, "third@example.com", models.RoleUser)

	factory.CreateSubscription(t, firstID, courseID)
	factory.CreateSubscription(t, secondID, courseID)
	factory.CreateSubscription(t, thirdID, otherCourseID)

	emails, err := storage.ListCourseSubscribers(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, emails)

	empty, err := storage.ListCourseSubscribers(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorage_RemoveCourse_Cascades(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, &userID)
	factory.CreateLesson(t, courseID, "Введение", 0, &userID)
	factory.CreateLesson(t, courseID, "Типы данных", 500, &userID)
	factory.CreateSubscription(t, userID, courseID)
	paymentID := factory.CreatePayment(t, userID, &courseID, nil, 5000,
		models.PaymentMethodTransfer, time.Now())

	rowsAffected, err := storage.RemoveCourse(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	// Уроки и подписки удаляются вместе с курсом
	verify.VerifyRowCount(t, "lessons", "course_id", courseID, 0)
	verify.VerifyRowCount(t, "subscriptions", "course_id", courseID, 0)

	// Платёж сохраняется, ссылка на курс обнуляется
	verify.VerifyRowCount(t, "payments", "user_id", userID, 1)
	verify.VerifyPaymentCourseID(t, paymentID, nil)

	payments, err := storage.ListPaymentsByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Nil(t, payments[0].CourseID)
	assert.Equal(t, int64(5000), payments[0].Amount)
}

func TestStorage_RemoveUser_Cascades(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, &userID)
	factory.CreateSubscription(t, userID, courseID)
	factory.CreatePayment(t, userID, &courseID, nil, 5000,
		models.PaymentMethodTransfer, time.Now())

	_, err := storage.DB.Exec("DELETE FROM users WHERE id = $1", userID)
	require.NoError(t, err)

	// Подписки и платежи пользователя удаляются, курс остаётся без владельца
	verify.VerifyRowCount(t, "subscriptions", "user_id", userID, 0)
	verify.VerifyRowCount(t, "payments", "user_id", userID, 0)

	course, err := storage.GetCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Nil(t, course.OwnerID)
}

func TestStorage_LessonLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerID := factory.CreateUser(t, "author@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, &ownerID)

	id, err := storage.CreateLesson(ctx, models.Lesson{
		CourseID:    courseID,
		Title:       "Введение",
		Description: "Первый урок",
		Price:       500,
		OwnerID:     &ownerID,
	})
	require.NoError(t, err)

	got, err := storage.GetLesson(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, courseID, got.CourseID)
	assert.Equal(t, "Введение", got.Title)

	rowsAffected, err := storage.UpdateLesson(ctx, id, models.DummyLesson{
		CourseID: courseID,
		Title:    "Введение в Go",
		Price:    700,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	byCourse, err := storage.ListLessonsByCourse(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Введение в Go", byCourse[0].Title)

	rowsAffected, err = storage.RemoveLesson(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rowsAffected)

	_, err = storage.GetLesson(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_ListPayments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, nil)
	lessonID := factory.CreateLesson(t, courseID, "Введение", 500, nil)

	oldDate := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	midDate := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	newDate := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	factory.CreatePayment(t, userID, &courseID, nil, 5000, models.PaymentMethodTransfer, oldDate)
	factory.CreatePayment(t, userID, nil, &lessonID, 500, models.PaymentMethodCash, midDate)
	factory.CreatePayment(t, userID, &courseID, nil, 5000, models.PaymentMethodTransfer, newDate)

	// Без фильтра, новые сначала
	all, err := storage.ListPayments(ctx, models.PaymentFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].PaymentDate.Equal(newDate))
	assert.True(t, all[1].PaymentDate.Equal(midDate))
	assert.True(t, all[2].PaymentDate.Equal(oldDate))

	// Фильтр по курсу
	byCourse, err := storage.ListPayments(ctx, models.PaymentFilter{CourseID: &courseID}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byCourse, 2)

	// Фильтр по уроку
	byLesson, err := storage.ListPayments(ctx, models.PaymentFilter{LessonID: &lessonID}, 10, 0)
	require.NoError(t, err)
	require.Len(t, byLesson, 1)
	assert.Equal(t, models.PaymentMethodCash, byLesson[0].PaymentMethod)

	// Фильтр по способу оплаты
	byMethod, err := storage.ListPayments(ctx, models.PaymentFilter{PaymentMethod: models.PaymentMethodCash}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byMethod, 1)

	// Пагинация
	page, err := storage.ListPayments(ctx, models.PaymentFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].PaymentDate.Equal(oldDate))
}

func TestStorage_CreatePayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userID := factory.CreateUser(t, "student@example.com", models.RoleUser)
	courseID := factory.CreateCourse(t, "Go для начинающих", 5000, nil)

	sessionID := "cs_test_abc123"
	link := "https://checkout.example.com/pay/cs_test_abc123"
	payment, err := storage.CreatePayment(ctx, models.Payment{
		UserID:        userID,
		CourseID:      &courseID,
		Amount:        5000,
		PaymentMethod: models.PaymentMethodTransfer,
		SessionID:     &sessionID,
		Link:          &link,
	})
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Positive(t, payment.ID)
	assert.WithinDuration(t, time.Now(), payment.PaymentDate, time.Minute)
	require.NotNil(t, payment.SessionID)
	assert.Equal(t, sessionID, *payment.SessionID)
}
