// Package auth содержит бизнес-логику регистрации и входа пользователей.
// Пароли хранятся только в виде bcrypt-хэша, вход выдаёт JWT токен.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/learning-platform/internal/lib/password"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	RegisterUser(ctx context.Context, email, passwordHash string, role models.Role) (int64, string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// Service реализует бизнес-логику аутентификации.
type Service struct {
	repo  Repository
	maker jwt.Maker
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register регистрирует нового пользователя с ролью user
// и возвращает его ID. Email должен быть уникальным.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (int64, error) {
	const op = "auth.Register"

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, uid, err := s.repo.RegisterUser(ctx, email, hash, models.RoleUser)
	if err != nil {
		return 0, err
	}

	s.log.Info("registered new user",
		slog.Int64("id", id),
		slog.String("uid", uid))
	return id, nil
}

// Login проверяет учетные данные и возвращает подписанный JWT токен.
// На неверный email и на неверный пароль ответ одинаковый.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", apperr.PermissionDenied("invalid email or password")
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", apperr.PermissionDenied("invalid email or password")
	}

	token, err := s.maker.GenerateToken(user.Email, string(user.Role), user.ID, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Вход уже состоялся, отметка времени не критична.
		s.log.Warn("failed to update last login", slog.Int64("id", user.ID))
	}

	s.log.Info("user logged in", slog.Int64("id", user.ID))
	return token, nil
}
