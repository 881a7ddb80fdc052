package models

import "time"

// PaymentMethod — способ оплаты.
type PaymentMethod string

const (
	// PaymentMethodCash — оплата наличными.
	PaymentMethodCash PaymentMethod = "cash"
	// PaymentMethodTransfer — перевод на счёт. Используется по умолчанию
	// при создании платёжной сессии.
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Payment — запись о платеже. Ровно одно из полей CourseID/LessonID
// заполнено при создании; любое из них может стать nil позже, если
// оплаченная сущность удалена — сама запись платежа при этом сохраняется.
// Amount — копия цены цели на момент создания платежа, не живая ссылка.
type Payment struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	CourseID      *int64        `json:"course_id,omitempty"`
	LessonID      *int64        `json:"lesson_id,omitempty"`
	Amount        int64         `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentDate   time.Time     `json:"payment_date"`
	SessionID     *string       `json:"session_id,omitempty"`
	Link          *string       `json:"link,omitempty"`
}

// PaymentFilter — фильтр списка платежей. Нулевые значения означают
// отсутствие фильтрации по полю.
type PaymentFilter struct {
	CourseID      *int64
	LessonID      *int64
	PaymentMethod PaymentMethod
}
