package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// CreateCourse вставляет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int64, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (title, description, price, owner_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		course.Title, nullString(course.Description), course.Price, course.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCourse возвращает курс по его ID.
func (s *Storage) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, owner_id
			  FROM courses WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Course
	var description sql.NullString
	if err := row.Scan(&result.ID, &result.Title, &description, &result.Price, &result.OwnerID); err != nil {
		return nil, notFoundOr(err, "course", op)
	}
	result.Description = description.String
	return &result, nil
}

// UpdateCourse обновляет данные курса и возвращает количество изменённых строк.
func (s *Storage) UpdateCourse(ctx context.Context, id int64, req models.DummyCourse) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = $1, description = $2, price = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.Title, nullString(req.Description), req.Price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCourse удаляет курс по ID. Уроки и подписки курса удаляются
// каскадно, у платежей ссылка на курс обнуляется на уровне схемы.
func (s *Storage) RemoveCourse(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCourses возвращает список всех курсов с пагинацией.
func (s *Storage) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	query := `SELECT id, title, description, price, owner_id
			  FROM courses
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	return s.queryCourses(ctx, op, query, limit, offset)
}

// ListCoursesByOwner возвращает курсы, созданные пользователем, с пагинацией.
func (s *Storage) ListCoursesByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCoursesByOwner"
	query := `SELECT id, title, description, price, owner_id
			  FROM courses
			  WHERE owner_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	return s.queryCourses(ctx, op, query, ownerID, limit, offset)
}

func (s *Storage) queryCourses(ctx context.Context, op, query string, args ...any) ([]*models.Course, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var c models.Course
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &description, &c.Price, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.Description = description.String
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
