package models

import "time"

// Subscription — подписка пользователя на обновления курса.
// Пара (user_id, course_id) уникальна: у пользователя не может быть
// больше одной подписки на один курс.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourseID  int64     `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseUpdatedJob — полезная нагрузка задачи рассылки уведомлений
// об обновлении курса. Воркер перечитывает курс и подписки по этому id.
type CourseUpdatedJob struct {
	CourseID int64 `json:"course_id"`
}
