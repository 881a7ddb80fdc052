// Package profile содержит бизнес-логику просмотра и обновления профилей.
// Свой профиль виден целиком вместе с историей платежей, чужой —
// только в публичном представлении.
package profile

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/learning-platform/internal/authz"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Repository определяет методы для работы с профилями в хранилище.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, req models.UpdateProfileRequest) (int, error)
	ListPaymentsByUser(ctx context.Context, userID int64) ([]*models.Payment, error)
}

// Service реализует бизнес-логику работы с профилями.
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

// OwnProfile — полный профиль владельца вместе с историей его платежей.
type OwnProfile struct {
	models.User
	Payments []*models.Payment `json:"payments"`
}

// Get возвращает профиль пользователя id. Для своего профиля —
// полные данные с историей платежей, для чужого — публичные поля.
func (s *Service) Get(ctx context.Context, actor *models.User, id int64) (any, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.ID != id {
		return user.Public(), nil
	}

	payments, err := s.repo.ListPaymentsByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OwnProfile{User: *user, Payments: payments}, nil
}

// Update обновляет собственный профиль пользователя.
// Пустые поля запроса оставляют прежние значения.
func (s *Service) Update(ctx context.Context, actor *models.User, id int64, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.policy.CanUpdateProfile(actor, id); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateProfile(ctx, id, req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("updated profile", slog.Int64("id", id))
	return user, nil
}
