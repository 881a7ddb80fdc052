// Package paymentlist реализует HTTP-обработчик получения списка платежей
// с фильтрацией по курсу, уроку и способу оплаты и сортировкой по дате.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/learning-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learning-platform/internal/http/response"
	"github.com/magabrotheeeer/learning-platform/internal/lib/sl"
	"github.com/magabrotheeeer/learning-platform/internal/models"
)

const (
	defaultLimit = 4
	maxLimit     = 10
)

// Handler обрабатывает запросы списка платежей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики платежей
}

// Service описывает интерфейс бизнес-логики списка платежей.
type Service interface {
	List(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает список платежей, отсортированный по дате по убыванию. Поддерживает фильтры по курсу, уроку и способу оплаты.
// @Tags Payments
// @Produce  json
// @Param course query int false "Фильтр по ID курса"
// @Param lesson query int false "Фильтр по ID урока"
// @Param payment_method query string false "Фильтр по способу оплаты (cash или transfer)"
// @Param limit query int false "Размер страницы (по умолчанию 4, максимум 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if _, ok := middlewarectx.Actor(r.Context()); !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var filter models.PaymentFilter
	if raw := r.URL.Query().Get("course"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.CourseID = &id
		}
	}
	if raw := r.URL.Query().Get("lesson"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.LessonID = &id
		}
	}
	filter.PaymentMethod = models.PaymentMethod(r.URL.Query().Get("payment_method"))

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("payments listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(res),
		"payments":   res,
	}))
}
