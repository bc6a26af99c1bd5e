// Package httpapi exposes the REST API the sync clients talk to.
package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/exercises"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/metrics"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/users"
)

// API wires the repositories to the HTTP routes.
type API struct {
	users         users.Repository
	exercises     exercises.Repository
	metrics       metrics.Repository
	secretKey     []byte
	tokenValidity time.Duration
	log           logging.Logger
}

func New(usersRepo users.Repository, exercisesRepo exercises.Repository, metricsRepo metrics.Repository,
	secretKey []byte, tokenValidity time.Duration, log logging.Logger) *API {
	return &API{
		users:         usersRepo,
		exercises:     exercisesRepo,
		metrics:       metricsRepo,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		log:           log,
	}
}

// Router builds the route tree. Everything under /exercises and /metrics
// requires a valid Bearer token.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", a.health)
	r.Post("/auth/register", a.register)
	r.Post("/auth/login", a.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(a.secretKey))

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", a.listExercises)
			r.Post("/", a.createExercise)
			r.Put("/{id}", a.updateExercise)
			r.Delete("/{id}", a.archiveExercise)

			r.Get("/records", a.listExerciseRecords)
			r.Post("/records", a.createExerciseRecord)
			r.Put("/records/{id}", a.updateExerciseRecord)
			r.Delete("/records/{id}", a.archiveExerciseRecord)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/", a.listMetrics)
			r.Post("/", a.createMetric)
			r.Put("/{id}", a.updateMetric)
			r.Delete("/{id}", a.archiveMetric)

			r.Get("/records", a.listMetricRecords)
			r.Post("/records", a.createMetricRecord)
			r.Put("/records/{id}", a.updateMetricRecord)
			r.Delete("/records/{id}", a.archiveMetricRecord)
		})
	})

	return r
}
