package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/trademaster/internal/middleware"
	"github.com/mmeshcher/trademaster/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/view", h.SetView)
		r.Get("/nav", h.GetNav)

		r.Get("/toast", h.GetToast)
		r.Delete("/toast", h.DismissToast)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/logout", h.Logout)
		})

		r.Get("/courses", h.GetCourses)
		r.Post("/courses/featured", h.FeaturedCourse)
		r.Get("/courses/{id}", h.GetCourse)
		r.Post("/courses/{id}/select", h.SelectCourse)

		r.Route("/course", func(r chi.Router) {
			r.Get("/", h.GetSelectedCourse)
			r.Post("/unlock", h.Unlock)
			r.Post("/buy", h.BuyNow)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Get("/", h.GetPayment)
			r.Post("/copy-upi", h.CopyUPI)
			r.Post("/submit", h.SubmitPayment)
		})

		r.With(h.guard.Require(model.RoleStudent)).Get("/dashboard/student", h.GetStudentDashboard)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.guard.Require(model.RoleAdmin))

			r.Get("/dashboard", h.GetAdminDashboard)
			r.Get("/enrollments", h.GetEnrollments)
			r.Post("/courses", h.CreateCourse)
			r.Put("/courses/{id}", h.UpdateCourse)
			r.Delete("/courses/{id}", h.DeleteCourse)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
