package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// CreateLesson вставляет новый урок и возвращает его ID.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error) {
	const op = "storage.CreateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lessons (course_id, title, description, price, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		lesson.CourseID, lesson.Title, nullString(lesson.Description), lesson.Price, lesson.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLesson возвращает урок по его ID.
func (s *Storage) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, title, description, price, owner_id
			  FROM lessons WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Lesson
	var description sql.NullString
	if err := row.Scan(&result.ID, &result.CourseID, &result.Title, &description,
		&result.Price, &result.OwnerID); err != nil {
		return nil, notFoundOr(err, "lesson", op)
	}
	result.Description = description.String
	return &result, nil
}

// UpdateLesson обновляет данные урока и возвращает количество изменённых строк.
func (s *Storage) UpdateLesson(ctx context.Context, id int64, req models.DummyLesson) (int, error) {
	const op = "storage.UpdateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lessons
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

// RemoveLesson удаляет урок по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveLesson(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM lessons WHERE id = $1`
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

// ListLessons возвращает список всех уроков с пагинацией.
func (s *Storage) ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, error) {
	const op = "storage.ListLessons"
	query := `SELECT id, course_id, title, description, price, owner_id
			  FROM lessons
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	return s.queryLessons(ctx, op, query, limit, offset)
}

// ListLessonsByOwner возвращает уроки, созданные пользователем, с пагинацией.
func (s *Storage) ListLessonsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Lesson, error) {
	const op = "storage.ListLessonsByOwner"
	query := `SELECT id, course_id, title, description, price, owner_id
			  FROM lessons
			  WHERE owner_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	return s.queryLessons(ctx, op, query, ownerID, limit, offset)
}

// ListLessonsByCourse возвращает все уроки курса.
func (s *Storage) ListLessonsByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	const op = "storage.ListLessonsByCourse"
	query := `SELECT id, course_id, title, description, price, owner_id
			  FROM lessons
			  WHERE course_id = $1
			  ORDER BY id`
	return s.queryLessons(ctx, op, query, courseID)
}

func (s *Storage) queryLessons(ctx context.Context, op, query string, args ...any) ([]*models.Lesson, error) {
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

	var result []*models.Lesson
	for rows.Next() {
		var l models.Lesson
		var description sql.NullString
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &description, &l.Price, &l.OwnerID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		l.Description = description.String
		result = append(result, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
