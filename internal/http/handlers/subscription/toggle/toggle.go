// Package toggle реализует HTTP-обработчик переключения подписки на курс.
//
// Повторный запрос к тому же курсу снимает подписку: операция работает
// как переключатель. Ответ содержит человекочитаемое сообщение об итоге.
package toggle

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
)

// Handler обрабатывает HTTP-запросы переключения подписки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики переключения подписки.
type Service interface {
	Toggle(ctx context.Context, actor *models.User, courseID int64) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить подписку на курс
// @Description Подписывает текущего пользователя на курс или снимает подписку, если она уже есть.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response "Итог переключения"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /courses/{id}/subscription [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	actor, ok := middlewarectx.Actor(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	created, err := h.service.Toggle(r.Context(), actor, courseID)
	if err != nil {
		log.Error("failed to toggle subscription", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	message := "subscription removed"
	if created {
		message = "subscription added"
	}

	log.Info("subscription toggled",
		slog.Int64("course_id", courseID),
		slog.Bool("subscribed", created))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":    message,
		"subscribed": created,
	}))
}
