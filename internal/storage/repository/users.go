package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его ID и UID.
func (s *Storage) RegisterUser(ctx context.Context, email, passwordHash string, role models.Role) (int64, string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, password_hash, role)
			  VALUES ($1, $2, $3)
			  RETURNING id, uid`
	var newID int64
	var uid string
	err := s.DB.QueryRowContext(ctx, query, email, passwordHash, role).Scan(&newID, &uid)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, "", fmt.Errorf("%s: %w", op, apperr.Validation("email already registered"))
		}
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, uid, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, uid, email, password_hash, role, avatar, phone, city, last_login, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, uid, email, password_hash, role, avatar, phone, city, last_login, created_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var avatar, phone, city sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.UID, &u.Email, &u.PasswordHash, &u.Role,
		&avatar, &phone, &city, &lastLogin, &u.CreatedAt); err != nil {
		return nil, notFoundOr(err, "user", op)
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if city.Valid {
		u.City = &city.String
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

// UpdateLastLogin выставляет отметку последнего входа пользователя.
func (s *Storage) UpdateLastLogin(ctx context.Context, id int64) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile обновляет поля профиля пользователя и возвращает количество изменённых строк.
func (s *Storage) UpdateProfile(ctx context.Context, id int64, req models.UpdateProfileRequest) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET avatar = COALESCE($1, avatar),
			      phone = COALESCE($2, phone),
			      city = COALESCE($3, city)
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.Avatar, req.Phone, req.City, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
