package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/mindtriage/mindtriage-api/docs"
	"github.com/mindtriage/mindtriage-api/internal/api/handler"
	"github.com/mindtriage/mindtriage-api/internal/api/middleware"
)

type Router struct {
	userHandler     *handler.UserHandler
	checkinHandler  *handler.CheckinHandler
	rapidHandler    *handler.RapidHandler
	insightHandler  *handler.InsightHandler
	questionHandler *handler.QuestionHandler
}

func NewRouter(
	userHandler *handler.UserHandler,
	checkinHandler *handler.CheckinHandler,
	rapidHandler *handler.RapidHandler,
	insightHandler *handler.InsightHandler,
	questionHandler *handler.QuestionHandler,
) *Router {
	return &Router{
		userHandler:     userHandler,
		checkinHandler:  checkinHandler,
		rapidHandler:    rapidHandler,
		insightHandler:  insightHandler,
		questionHandler: questionHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Rapid battery is identical for everyone
		r.Get("/questions/rapid", rt.questionHandler.RapidBattery)

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)

			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", rt.userHandler.GetByID)

				// Check-ins and answer history
				r.Post("/checkins", rt.checkinHandler.Submit)
				r.Get("/answers", rt.checkinHandler.ListAnswers)

				// Question rotation
				r.Get("/questions/daily", rt.questionHandler.NextDaily)
				r.Get("/questions/micro", rt.questionHandler.NextMicro)

				// Rapid assessments
				r.Route("/rapid", func(r chi.Router) {
					r.Post("/start", rt.rapidHandler.Start)
					r.Post("/submit", rt.rapidHandler.Submit)
					r.Get("/", rt.rapidHandler.List)
				})

				// Insights and safety
				r.Get("/insights/daily", rt.insightHandler.Daily)
				r.Get("/baseline", rt.insightHandler.Baseline)
				r.Get("/engagement", rt.insightHandler.Engagement)
				r.Get("/safety-events", rt.insightHandler.SafetyEvents)
			})
		})
	})

	return r
}
