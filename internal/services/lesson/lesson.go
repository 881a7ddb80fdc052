// Package lesson содержит бизнес-логику для управления уроками.
// Права на уроки проверяются по владельцу урока, а не курса;
// редактирование модераторами включается флагом политики.
package lesson

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/learning-platform/internal/authz"
	"github.com/magabrotheeeer/learning-platform/internal/lib/links"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Repository определяет методы для работы с уроками в хранилище.
type Repository interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, req models.DummyLesson) (int, error)
	RemoveLesson(ctx context.Context, id int64) (int, error)
	ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, error)
	ListLessonsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Lesson, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
}

// Service реализует бизнес-логику работы с уроками.
type Service struct {
	repo   Repository
	policy authz.Policy
	log    *slog.Logger
}

// New создает новый Service.
func New(repo Repository, policy authz.Policy, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		log:    log,
	}
}

// Create создает новый урок в существующем курсе. Модераторам создание
// запрещено, владельцем назначается создатель.
func (s *Service) Create(ctx context.Context, actor *models.User, req models.DummyLesson) (*models.Lesson, error) {
	if err := s.policy.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if err := links.ValidateText(req.Description); err != nil {
		return nil, err
	}
	// Курс должен существовать: урок без курса невозможен.
	if _, err := s.repo.GetCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     &actor.ID,
	}
	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	lesson.ID = id

	s.log.Info("created new lesson", slog.Int64("id", id), slog.Int64("course_id", req.CourseID))
	return &lesson, nil
}

// Read возвращает урок. Доступен владельцу и модератору.
func (s *Service) Read(ctx context.Context, actor *models.User, id int64) (*models.Lesson, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanReadLesson(actor, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// List возвращает список уроков с пагинацией:
// все для модератора, только свои для остальных.
func (s *Service) List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.Lesson, error) {
	if s.policy.CanViewAll(actor) {
		return s.repo.ListLessons(ctx, limit, offset)
	}
	return s.repo.ListLessonsByOwner(ctx, actor.ID, limit, offset)
}

// Update обновляет урок. Право имеет владелец, и модератор —
// если это разрешено политикой.
func (s *Service) Update(ctx context.Context, actor *models.User, id int64, req models.DummyLesson) (*models.Lesson, error) {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateLesson(actor, lesson); err != nil {
		return nil, err
	}
	if err := links.ValidateText(req.Description); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateLesson(ctx, id, req); err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Price = req.Price
	return lesson, nil
}

// Remove удаляет урок. Право имеет только владелец.
func (s *Service) Remove(ctx context.Context, actor *models.User, id int64) error {
	lesson, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanDeleteLesson(actor, lesson); err != nil {
		return err
	}

	if _, err := s.repo.RemoveLesson(ctx, id); err != nil {
		return err
	}

	s.log.Info("removed lesson", slog.Int64("id", id))
	return nil
}
