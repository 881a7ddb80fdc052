// Package read реализует HTTP-обработчик получения курса по ID
// вместе с его уроками и признаком подписки текущего пользователя.
package read

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

// Handler обрабатывает запросы чтения курса по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики курсов
}

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	Read(ctx context.Context, actor *models.User, id int64) (*models.CourseDetail, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить курс
// @Description Возвращает курс с его уроками и признаком подписки. Доступен владельцу и модератору.
// @Tags Courses
// @Produce  json
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response "Курс с уроками"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет доступа к курсу"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /courses/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
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

	res, err := h.service.Read(r.Context(), actor, id)
	if err != nil {
		log.Error("failed to read course", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("course read", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"course": res,
	}))
}
