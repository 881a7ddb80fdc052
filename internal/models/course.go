package models

// Course представляет обучающий курс. Цена хранится целым числом
// в основных единицах валюты, ноль — допустимая цена.
// OwnerID может быть nil: владелец удалён, курс остаётся без владельца.
type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	OwnerID     *int64 `json:"owner_id,omitempty"`
}

// CourseDetail — курс вместе с его уроками и признаком подписки
// текущего пользователя.
type CourseDetail struct {
	Course
	LessonsCount int       `json:"lessons_count"`
	Lessons      []*Lesson `json:"lessons"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// DummyCourse используется для приёма данных курса из JSON-запроса.
type DummyCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
}
