package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// ToggleSubscription атомарно создаёт подписку пользователя на курс либо
// удаляет существующую. Выполняется в одной транзакции: вставка идёт через
// ON CONFLICT DO NOTHING, так что уникальное ограничение (user_id, course_id)
// закрывает гонку двух конкурентных переключений — проигравшая вставка
// попадает в ветку удаления. Возвращает true, если подписка создана.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.ToggleSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `INSERT INTO subscriptions (user_id, course_id)
			   VALUES ($1, $2)
			   ON CONFLICT (user_id, course_id) DO NOTHING`
	result, err := tx.ExecContext(ctx, insert, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	created := inserted > 0
	if !created {
		remove := `DELETE FROM subscriptions WHERE user_id = $1 AND course_id = $2`
		if _, err = tx.ExecContext(ctx, remove, userID, courseID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// IsSubscribed сообщает, подписан ли пользователь на курс.
func (s *Storage) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	const op = "storage.IsSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM subscriptions WHERE user_id = $1 AND course_id = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListCourseSubscribers возвращает подписки на курс вместе с email подписчиков.
func (s *Storage) ListCourseSubscribers(ctx context.Context, courseID int64) ([]string, error) {
	const op = "storage.ListCourseSubscribers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.course_id = $1
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscriptionsByUser возвращает подписки пользователя.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, course_id, created_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.CourseID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
