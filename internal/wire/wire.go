package wire

import (
	"net/http"

	"training-scheduler/internal/adaptor"
	"training-scheduler/internal/data/repository"
	"training-scheduler/internal/notifier"
	"training-scheduler/internal/usecase"
	"training-scheduler/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service graph and mounts every route.
func Wiring(repo *repository.Repository, dispatcher notifier.Notifier, logger *zap.Logger) *App {
	service := usecase.NewService(repo, dispatcher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Actor(logger))

	wireBooking(r, handler.Booking)
	wireAttendance(r, handler.Attendance)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := repo.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unreachable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
