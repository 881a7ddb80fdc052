package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// CreatePayment сохраняет запись о платеже и возвращает её ID и дату платежа.
// Дата выставляется часами сервера базы данных и далее не меняется.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_id, course_id, lesson_id, amount, payment_method, session_id, link)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, payment_date`
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.CourseID, payment.LessonID, payment.Amount,
		payment.PaymentMethod, payment.SessionID, payment.Link).
		Scan(&payment.ID, &payment.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &payment, nil
}

// ListPayments возвращает платежи по фильтру, новые сначала, с пагинацией.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any
	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		conditions = append(conditions, "course_id = $"+strconv.Itoa(len(args)))
	}
	if filter.LessonID != nil {
		args = append(args, *filter.LessonID)
		conditions = append(conditions, "lesson_id = $"+strconv.Itoa(len(args)))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		conditions = append(conditions, "payment_method = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, user_id, course_id, lesson_id, amount, payment_method, payment_date, session_id, link
			  FROM payments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY payment_date DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.LessonID, &p.Amount,
			&p.PaymentMethod, &p.PaymentDate, &p.SessionID, &p.Link); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые сначала.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userID int64) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, course_id, lesson_id, amount, payment_method, payment_date, session_id, link
			  FROM payments
			  WHERE user_id = $1
			  ORDER BY payment_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.LessonID, &p.Amount,
			&p.PaymentMethod, &p.PaymentDate, &p.SessionID, &p.Link); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
