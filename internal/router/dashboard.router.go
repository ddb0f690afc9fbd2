package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"rentx-admin/internal/handler"
	"rentx-admin/internal/middleware"
	"rentx-admin/pkg/response"
)

func SetupRoutes(
	h *handler.DashboardHandler,
	gate *middleware.Gate,
	guard *middleware.Guard,
	loginLimiter func(http.Handler) http.Handler,
	trustProxy bool,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	// Forwarding headers are client-controlled unless a proxy rewrites them.
	if trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(LoggerMiddleware(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// Machine-readable endpoints are open to tooling on other origins.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/healthz", h.Health)
		r.Get("/api/session", h.SessionStatus)
	})

	r.Get("/", h.Root)
	r.Get("/login", h.LoginPage)
	r.With(loginLimiter).Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireSession)

		r.Post("/signout", h.SignOut)
		r.Get("/ws/session", h.SessionSocket)
		r.Get("/dashboard", h.Dashboard)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.Customers)
			r.With(guard.Once("/customers")).Post("/{id}/toggle", h.ToggleCustomer)
		})

		r.Route("/property", func(r chi.Router) {
			r.Get("/", h.Properties)
			r.With(guard.Once("/property")).Post("/{id}/delete", h.DeleteProperty)
		})

		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", h.Facilities)
			r.Group(func(r chi.Router) {
				r.Use(guard.Once("/facilities"))
				r.Post("/", h.CreateFacility)
				r.Post("/{id}", h.UpdateFacility)
				r.Post("/{id}/delete", h.DeleteFacility)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories)
			r.Group(func(r chi.Router) {
				r.Use(guard.Once("/categories"))
				r.Post("/", h.CreateCategory)
				r.Post("/{id}", h.UpdateCategory)
				r.Post("/{id}/delete", h.DeleteCategory)
			})
		})

		r.Route("/slider", func(r chi.Router) {
			r.Get("/", h.Slider)
			r.Group(func(r chi.Router) {
				r.Use(guard.Once("/slider"))
				r.Post("/", h.AddSlider)
				r.Post("/{id}/toggle", h.ToggleSlider)
				r.Post("/{id}/delete", h.DeleteSlider)
			})
		})
	})

	// Unknown shell paths land on the dashboard, behind the gate like everything else.
	toDashboard := gate.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if response.WantsJSON(r) {
			response.Error(w, http.StatusNotFound, "not found")
			return
		}
		toDashboard.ServeHTTP(w, r)
	})

	return r
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", chimw.GetReqID(r.Context())))
		})
	}
}
