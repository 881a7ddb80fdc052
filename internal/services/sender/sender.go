// Package sender реализует рассылку почтовых уведомлений подписчикам
// курса после его обновления. Сообщения приходят из очереди RabbitMQ.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/lib/sl"
	"github.com/magabrotheeeer/learning-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Repository определяет методы для чтения курса и его подписчиков.
type Repository interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourseSubscribers(ctx context.Context, courseID int64) ([]string, error)
}

// Service реализует бизнес-логику отправки уведомлений об обновлении курса.
type Service struct {
	repo      Repository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый Service.
func New(repo Repository, transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// SendCourseUpdatedNotification обрабатывает сообщение об обновлении курса:
// находит подписчиков и отправляет каждому письмо. Если курс уже удалён,
// сообщение считается обработанным.
func (s *Service) SendCourseUpdatedNotification(body []byte) error {
	var job models.CourseUpdatedJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	course, err := s.repo.GetCourse(ctx, job.CourseID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Info("course removed before notification, skipping",
				slog.Int64("course_id", job.CourseID))
			return nil
		}
		return err
	}

	emails, err := s.repo.ListCourseSubscribers(ctx, job.CourseID)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		s.log.Info("course has no subscribers", slog.Int64("course_id", job.CourseID))
		return nil
	}

	subject := "Обновление материалов курса"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nМатериалы курса «%s» были обновлены.\n\nЗайдите на платформу, чтобы посмотреть изменения.",
		course.Title)

	for _, email := range emails {
		if err := s.sendEmail([]string{email}, subject, bodyText); err != nil {
			return err
		}
	}

	s.log.Info("course update notifications sent",
		slog.Int64("course_id", job.CourseID),
		slog.Int("subscribers", len(emails)))
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close() //nolint:errcheck

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
