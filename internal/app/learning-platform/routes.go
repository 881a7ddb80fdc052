package learningplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/auth/register"
	coursecreate "github.com/magabrotheeeer/learning-platform/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/learning-platform/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/learning-platform/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/learning-platform/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/learning-platform/internal/http/handlers/course/update"
	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/health"
	lessoncreate "github.com/magabrotheeeer/learning-platform/internal/http/handlers/lesson/create"
	lessonlist "github.com/magabrotheeeer/learning-platform/internal/http/handlers/lesson/list"
	lessonread "github.com/magabrotheeeer/learning-platform/internal/http/handlers/lesson/read"
	lessonremove "github.com/magabrotheeeer/learning-platform/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/magabrotheeeer/learning-platform/internal/http/handlers/lesson/update"
	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/payment/paymentlist"
	profileread "github.com/magabrotheeeer/learning-platform/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/learning-platform/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/learning-platform/internal/http/handlers/subscription/toggle"
	"github.com/magabrotheeeer/learning-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/learning-platform/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/learning-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/learning-platform/internal/services/course"
	lessonservice "github.com/magabrotheeeer/learning-platform/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/learning-platform/internal/services/payment"
	profileservice "github.com/magabrotheeeer/learning-platform/internal/services/profile"
	subscriptionservice "github.com/magabrotheeeer/learning-platform/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker,
	authService *authservice.Service,
	courseService *courseservice.Service,
	lessonService *lessonservice.Service,
	subscriptionService *subscriptionservice.Service,
	profileService *profileservice.Service,
	paymentService *paymentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/courses", coursecreate.New(logger, courseService).ServeHTTP)
			r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, courseService).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.New(logger, courseService).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, courseService).ServeHTTP)
			r.Post("/courses/{id}/subscription", toggle.New(logger, subscriptionService).ServeHTTP)
			r.Post("/courses/{course_id}/payment", paymentcreate.New(logger, paymentService).ServeHTTP)

			r.Post("/lessons", lessoncreate.New(logger, lessonService).ServeHTTP)
			r.Get("/lessons", lessonlist.New(logger, lessonService).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, lessonService).ServeHTTP)
			r.Put("/lessons/{id}", lessonupdate.New(logger, lessonService).ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, lessonService).ServeHTTP)
			r.Post("/lessons/{lesson_id}/payment", paymentcreate.New(logger, paymentService).ServeHTTP)

			r.Get("/payments", paymentlist.New(logger, paymentService).ServeHTTP)

			r.Get("/profiles/{id}", profileread.New(logger, profileService).ServeHTTP)
			r.Put("/profiles/{id}", profileupdate.New(logger, profileService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
