package models

// Lesson представляет урок внутри курса. Удаляется каскадно вместе с курсом.
// Владелец назначается отдельно от владельца курса.
type Lesson struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	OwnerID     *int64 `json:"owner_id,omitempty"`
}

// DummyLesson используется для приёма данных урока из JSON-запроса.
type DummyLesson struct {
	CourseID    int64  `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
}
