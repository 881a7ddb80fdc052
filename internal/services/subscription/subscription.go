// Package subscription реализует переключение подписки пользователя
// на обновления курса: существующая подписка удаляется, отсутствующая —
// создаётся. Операция атомарна на уровне хранилища.
package subscription

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Repository описывает методы хранилища для подписок.
type Repository interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error)
}

// Service реализует бизнес-логику подписок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Toggle переключает подписку пользователя на курс.
// Возвращает true, если подписка создана, false — если удалена.
// Несуществующий курс — ошибка "не найдено".
func (s *Service) Toggle(ctx context.Context, actor *models.User, courseID int64) (bool, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return false, err
	}

	created, err := s.repo.ToggleSubscription(ctx, actor.ID, course.ID)
	if err != nil {
		return false, err
	}

	s.log.Info("subscription toggled",
		slog.Int64("user_id", actor.ID),
		slog.Int64("course_id", course.ID),
		slog.Bool("created", created))
	return created, nil
}
