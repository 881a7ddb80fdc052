// Package authz реализует политику доступа: чистые предикаты над ролью
// пользователя и владельцем ресурса. Владение и модерация — независимые
// оси: модерация даёт видимость всего контента, но не право изменять его.
// Запрет на создание контента модераторами держит их вне авторской роли.
package authz

import (
	"github.com/magabrotheeeer/learning-platform/internal/apperr"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

// Policy хранит настраиваемые решения политики доступа.
type Policy struct {
	// ModeratorCanEditLessons разрешает модераторам обновлять чужие уроки.
	// На удаление уроков это право не распространяется.
	ModeratorCanEditLessons bool
}

// IsOwner сообщает, является ли пользователь владельцем ресурса.
// Ресурс без владельца не принадлежит никому.
func IsOwner(actor *models.User, ownerID *int64) bool {
	return actor != nil && ownerID != nil && actor.ID == *ownerID
}

// CanViewAll сообщает, видит ли пользователь весь каталог, а не только свои записи.
func (p Policy) CanViewAll(actor *models.User) bool {
	return actor.IsModerator()
}

// CanCreateContent проверяет право на создание курса или урока.
// Модераторам создание запрещено; владельцем становится создатель.
func (p Policy) CanCreateContent(actor *models.User) error {
	if actor.IsModerator() {
		return apperr.PermissionDenied("moderators cannot create content")
	}
	return nil
}

// CanUpdateCourse проверяет право на обновление курса: только владелец.
func (p Policy) CanUpdateCourse(actor *models.User, course *models.Course) error {
	if !IsOwner(actor, course.OwnerID) {
		return apperr.PermissionDenied("only the owner can update the course")
	}
	return nil
}

// CanDeleteCourse проверяет право на удаление курса: только владелец,
// модераторам удаление запрещено.
func (p Policy) CanDeleteCourse(actor *models.User, course *models.Course) error {
	if !IsOwner(actor, course.OwnerID) {
		return apperr.PermissionDenied("only the owner can delete the course")
	}
	return nil
}

// CanReadLesson проверяет право на чтение урока: владелец или модератор.
func (p Policy) CanReadLesson(actor *models.User, lesson *models.Lesson) error {
	if IsOwner(actor, lesson.OwnerID) || actor.IsModerator() {
		return nil
	}
	return apperr.PermissionDenied("no access to this lesson")
}

// CanUpdateLesson проверяет право на обновление урока: владелец,
// либо модератор при включённом ModeratorCanEditLessons.
func (p Policy) CanUpdateLesson(actor *models.User, lesson *models.Lesson) error {
	if IsOwner(actor, lesson.OwnerID) {
		return nil
	}
	if p.ModeratorCanEditLessons && actor.IsModerator() {
		return nil
	}
	return apperr.PermissionDenied("only the owner can update the lesson")
}

// CanDeleteLesson проверяет право на удаление урока: только владелец.
func (p Policy) CanDeleteLesson(actor *models.User, lesson *models.Lesson) error {
	if !IsOwner(actor, lesson.OwnerID) {
		return apperr.PermissionDenied("only the owner can delete the lesson")
	}
	return nil
}

// CanUpdateProfile проверяет право на изменение профиля: только сам пользователь.
func (p Policy) CanUpdateProfile(actor *models.User, profileID int64) error {
	if actor == nil || actor.ID != profileID {
		return apperr.PermissionDenied("only the profile owner can update it")
	}
	return nil
}
