// Package payment реализует оркестратор платёжных сессий: находит
// оплачиваемую цель, фиксирует её цену, проводит трёхшаговый обмен с
// внешним провайдером и сохраняет запись о платеже. Повторный вызов
// для той же цели создаёт новые артефакты у провайдера и новую запись —
// операция сознательно не идемпотентна.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/lib/sl"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// TargetType — тип оплачиваемой цели.
type TargetType string

const (
	// TargetCourse — оплата курса.
	TargetCourse TargetType = "course"
	// TargetLesson — оплата урока.
	TargetLesson TargetType = "lesson"
)

// minorUnitFactor — фиксированный множитель перевода цены из основных
// единиц валюты в минимальные для провайдера. Менять без изменения
// формата хранения цен нельзя.
const minorUnitFactor = 100

var checkoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "payment_checkout_sessions_total",
	Help: "Number of checkout sessions created, by target type.",
}, []string{"target"})

// Repository описывает методы хранилища, нужные оркестратору.
type Repository interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error)
}

// Provider описывает контракт внешнего платёжного провайдера.
type Provider interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID string, quantity int, successURL, cancelURL string) (string, string, error)
}

// Config — настройки оркестратора: валюта и адреса возврата,
// передаваемые провайдеру при создании сессии.
type Config struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// Service — оркестратор платёжных сессий.
type Service struct {
	repo     Repository
	provider Provider
	cfg      Config
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, provider Provider, cfg Config, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// Result — итог создания платёжной сессии: сохранённый платёж и ссылка
// для перенаправления пользователя на оплату.
type Result struct {
	Payment *models.Payment `json:"payment"`
	Link    string          `json:"payment_url"`
}

// CreateCheckout создаёт платёжную сессию для курса или урока.
//
// Порядок шагов: цель находится по типу и id, её цена фиксируется как
// сумма платежа, затем последовательно создаются продукт, цена и сессия
// у провайдера. Запись о платеже сохраняется только после успеха всех
// трёх вызовов: при сбое провайдера частичная запись не пишется, а уже
// созданные у провайдера продукт и цена остаются осиротевшими — это
// принятая утечка, компенсирующая транзакция не строится.
func (s *Service) CreateCheckout(ctx context.Context, actor *models.User, targetType TargetType, targetID int64) (*Result, error) {
	const op = "services.payment.CreateCheckout"
	log := s.log.With(slog.String("op", op), slog.Int64("target_id", targetID))

	title, description, amount, courseID, lessonID, err := s.resolveTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	// Название продукта различает тип цели; описание при его отсутствии
	// совпадает с названием.
	if description == "" {
		description = title
	}

	productID, err := s.provider.CreateProduct(ctx, title, description)
	if err != nil {
		log.Error("failed to create provider product", sl.Err(err))
		return nil, err
	}
	priceID, err := s.provider.CreatePrice(ctx, productID, amount*minorUnitFactor, s.cfg.Currency)
	if err != nil {
		log.Error("failed to create provider price", sl.Err(err))
		return nil, err
	}
	sessionID, link, err := s.provider.CreateCheckoutSession(ctx, priceID, 1, s.cfg.SuccessURL, s.cfg.CancelURL)
	if err != nil {
		log.Error("failed to create provider checkout session", sl.Err(err))
		return nil, err
	}

	payment, err := s.repo.CreatePayment(ctx, models.Payment{
		UserID:        actor.ID,
		CourseID:      courseID,
		LessonID:      lessonID,
		Amount:        amount,
		PaymentMethod: models.PaymentMethodTransfer,
		SessionID:     &sessionID,
		Link:          &link,
	})
	if err != nil {
		return nil, err
	}

	checkoutSessionsTotal.WithLabelValues(string(targetType)).Inc()
	log.Info("checkout session created",
		slog.String("session_id", sessionID), slog.Int64("amount", amount))

	return &Result{Payment: payment, Link: link}, nil
}

// resolveTarget находит оплачиваемую сущность и возвращает её название,
// описание, цену и id в соответствующем поле платежа.
func (s *Service) resolveTarget(ctx context.Context, targetType TargetType, targetID int64) (title, description string, amount int64, courseID, lessonID *int64, err error) {
	switch targetType {
	case TargetCourse:
		course, err := s.repo.GetCourse(ctx, targetID)
		if err != nil {
			return "", "", 0, nil, nil, err
		}
		return fmt.Sprintf("Course: %s", course.Title), course.Description, course.Price, &course.ID, nil, nil
	case TargetLesson:
		lesson, err := s.repo.GetLesson(ctx, targetID)
		if err != nil {
			return "", "", 0, nil, nil, err
		}
		return fmt.Sprintf("Lesson: %s", lesson.Title), lesson.Description, lesson.Price, nil, &lesson.ID, nil
	default:
		return "", "", 0, nil, nil, apperr.Validation("course or lesson id must be provided")
	}
}

// List возвращает платежи по фильтру с пагинацией, новые сначала.
func (s *Service) List(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, filter, limit, offset)
}
