// Package course содержит бизнес-логику для управления курсами:
// проверку прав, проверку ссылок в описаниях, кеширование чтений
// и постановку задачи рассылки уведомлений при обновлении курса.
package course

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/authz"
	"github.com/magabrotheeeer/learning-platform/internal/lib/links"
	"github.com/magabrotheeeer/learning-platform/internal/lib/sl"
	"github.com/magabrotheeeer/learning-platform/internal/models"
	"github.com/magabrotheeeer/learning-platform/internal/rabbitmq"
)

// Repository определяет методы для работы с курсами в хранилище.
type Repository interface {
	CreateCourse(ctx context.Context, course models.Course) (int64, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req models.DummyCourse) (int, error)
	RemoveCourse(ctx context.Context, id int64) (int, error)
	ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error)
	ListCoursesByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Course, error)
	ListLessonsByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Dispatcher ставит задачу рассылки уведомлений в очередь.
// Отправитель не ждёт выполнения задачи, только успешной постановки.
type Dispatcher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику работы с курсами.
type Service struct {
	repo       Repository
	cache      Cache
	dispatcher Dispatcher
	policy     authz.Policy
	log        *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, dispatcher Dispatcher, policy authz.Policy, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		dispatcher: dispatcher,
		policy:     policy,
		log:        log,
	}
}

// Create создает новый курс. Модераторам создание запрещено,
// владельцем назначается создатель — поле владельца из запроса не читается.
func (s *Service) Create(ctx context.Context, actor *models.User, req models.DummyCourse) (*models.Course, error) {
	if err := s.policy.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if err := links.ValidateText(req.Description); err != nil {
		return nil, err
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     &actor.ID,
	}
	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	s.log.Info("created new course", slog.Int64("id", id), slog.Int64("owner_id", actor.ID))
	return &course, nil
}

// Read возвращает курс с уроками и признаком подписки текущего пользователя.
// Модератор видит любой курс, остальные — только свои.
func (s *Service) Read(ctx context.Context, actor *models.User, id int64) (*models.CourseDetail, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewAll(actor) && !authz.IsOwner(actor, course.OwnerID) {
		return nil, apperr.PermissionDenied("no access to this course")
	}
	return s.detail(ctx, actor, course)
}

// List возвращает список курсов с пагинацией:
// все для модератора, только свои для остальных.
func (s *Service) List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.Course, error) {
	if s.policy.CanViewAll(actor) {
		return s.repo.ListCourses(ctx, limit, offset)
	}
	return s.repo.ListCoursesByOwner(ctx, actor.ID, limit, offset)
}

// Update обновляет курс владельца и ставит задачу рассылки уведомлений
// подписчикам. Сбой постановки не откатывает уже сохранённое обновление.
func (s *Service) Update(ctx context.Context, actor *models.User, id int64, req models.DummyCourse) (*models.Course, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateCourse(actor, course); err != nil {
		return nil, err
	}
	if err := links.ValidateText(req.Description); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateCourse(ctx, id, req); err != nil {
		return nil, err
	}
	s.invalidate(id)

	// Задача несёт только id курса: воркер сам перечитает курс и подписки.
	if err := s.dispatcher.Publish(rabbitmq.QueueCourseUpdated, models.CourseUpdatedJob{CourseID: id}); err != nil {
		s.log.Error("failed to enqueue course update notification", sl.Err(err))
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	return course, nil
}

// Remove удаляет курс владельца. Уроки и подписки уходят каскадно,
// платежи остаются с обнулённой ссылкой на курс.
func (s *Service) Remove(ctx context.Context, actor *models.User, id int64) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanDeleteCourse(actor, course); err != nil {
		return err
	}

	if _, err := s.repo.RemoveCourse(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)

	s.log.Info("removed course", slog.Int64("id", id))
	return nil
}

func (s *Service) detail(ctx context.Context, actor *models.User, course *models.Course) (*models.CourseDetail, error) {
	lessons, err := s.repo.ListLessonsByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.repo.IsSubscribed(ctx, actor.ID, course.ID)
	if err != nil {
		return nil, err
	}
	return &models.CourseDetail{
		Course:       *course,
		Lessons:      lessons,
		LessonsCount: len(lessons),
		IsSubscribed: subscribed,
	}, nil
}

// getCourse возвращает курс, используя кеш или репозиторий.
func (s *Service) getCourse(ctx context.Context, id int64) (*models.Course, error) {
	var cached *models.Course
	cacheKey := courseKey(id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read course from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, course, time.Hour); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", cacheKey), sl.Err(err))
	}
	return course, nil
}

func (s *Service) invalidate(id int64) {
	cacheKey := courseKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

func courseKey(id int64) string {
	return fmt.Sprintf("course:%d", id)
}
