// Package list реализует HTTP-обработчик получения списка курсов
// с пагинацией. Модератор видит весь каталог, пользователь — свои курсы.
package list

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

// Handler обрабатывает запросы списка курсов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики курсов
}

// Service описывает интерфейс бизнес-логики списка курсов.
type Service interface {
	List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.Course, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список курсов
// @Description Возвращает список курсов с пагинацией. Модератор видит все курсы, пользователь — только свои.
// @Tags Courses
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 4, максимум 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /courses [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	actor, ok := middlewarectx.Actor(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), actor, limit, offset)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("courses listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(res),
		"courses":    res,
	}))
}
