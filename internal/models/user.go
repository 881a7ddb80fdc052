// Package models содержит доменные структуры платформы обучения:
// пользователей, курсы, уроки, подписки и платежи, а также
// вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Role — закрытый набор ролей пользователя.
type Role string

const (
	// RoleUser — обычный пользователь: покупает курсы, управляет своим контентом.
	RoleUser Role = "user"
	// RoleModerator — модератор: видит весь контент, но не создаёт и не удаляет его.
	RoleModerator Role = "moderator"
)

// User представляет учётную запись пользователя. Авторизация идёт по email.
type User struct {
	ID           int64      `json:"id"`
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Avatar       *string    `json:"avatar,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	City         *string    `json:"city,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsModerator сообщает, принадлежит ли пользователь к роли модератора.
func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// PublicProfile — сокращённый набор полей профиля, видимый любому
// аутентифицированному пользователю.
type PublicProfile struct {
	ID     int64   `json:"id"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
	City   *string `json:"city,omitempty"`
}

// Public возвращает публичное представление профиля.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Email:  u.Email,
		Avatar: u.Avatar,
		City:   u.City,
	}
}

// UpdateProfileRequest используется для приёма данных обновления профиля.
type UpdateProfileRequest struct {
	Avatar *string `json:"avatar"`
	Phone  *string `json:"phone"`
	City   *string `json:"city"`
}
