// Package paymentcreate реализует HTTP-обработчик создания платёжной сессии
// для курса или урока.
//
// Handler монтируется на два маршрута — оплату курса и оплату урока — и
// определяет цель по URL-параметру. В ответе возвращается ссылка на оплату.
package paymentcreate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learning-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learning-platform/internal/http/response"
	"github.com/magabrotheeeer/learning-platform/internal/lib/sl"
	"github.com/magabrotheeeer/learning-platform/internal/models"
	"github.com/magabrotheeeer/learning-platform/internal/services/payment"
)

// Handler обрабатывает запросы создания платёжных сессий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики платежей
}

// Service описывает интерфейс бизнес-логики создания платёжной сессии.
type Service interface {
	CreateCheckout(ctx context.Context, actor *models.User, targetType payment.TargetType, targetID int64) (*payment.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать платёжную сессию
// @Description Создает платёжную сессию для курса или урока и возвращает ссылку на оплату. Каждый вызов создаёт новую сессию.
// @Tags Payments
// @Produce  json
// @Param course_id path int false "ID курса (для маршрута оплаты курса)"
// @Param lesson_id path int false "ID урока (для маршрута оплаты урока)"
// @Success 201 {object} response.Response "Платёж и ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или не указана цель"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс или урок не найден"
// @Failure 500 {object} response.ErrorResponse "Сбой платёжного провайдера"
// @Router /courses/{course_id}/payment [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetType, targetID, err := resolveTarget(r)
	if err != nil {
		log.Error("failed to decode target from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode target from url"))
		return
	}

	actor, ok := middlewarectx.Actor(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.CreateCheckout(r.Context(), actor, targetType, targetID)
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("checkout session created",
		slog.String("target", string(targetType)),
		slog.Int64("target_id", targetID),
		slog.Int64("payment_id", res.Payment.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(res))
}

// resolveTarget определяет оплачиваемую цель по URL-параметрам маршрута.
func resolveTarget(r *http.Request) (payment.TargetType, int64, error) {
	if raw := chi.URLParam(r, "course_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		return payment.TargetCourse, id, err
	}
	raw := chi.URLParam(r, "lesson_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	return payment.TargetLesson, id, err
}
