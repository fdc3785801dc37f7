package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/middleware"
)

// GetCourses возвращает каталог курсов.
func (h *Handler) GetCourses(w http.ResponseWriter, r *http.Request) {
	entries := h.service.Catalog()

	resp := make([]courseResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, newCourseResponse(e.Course, e.Enrolled))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetCourse возвращает страницу курса с модулями, не меняя выбранный курс.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.CourseDetails(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCourseDetailResponse(view))
}

// SelectCourse выбирает курс и открывает его страницу.
func (h *Handler) SelectCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.service.ViewCourse(id); err != nil {
		h.writeError(w, err)
		return
	}
	h.GetSelectedCourse(w, r)
}

// FeaturedCourse выбирает первый курс каталога.
func (h *Handler) FeaturedCourse(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.FeaturedCourse(); err != nil {
		h.writeError(w, err)
		return
	}
	h.GetSelectedCourse(w, r)
}

// GetSelectedCourse возвращает страницу выбранного курса.
func (h *Handler) GetSelectedCourse(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SelectedCourseDetails()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCourseDetailResponse(view))
}

type unlockRequest struct {
	Password string `json:"password"`
}

// Unlock разблокирует выбранный курс по паролю.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Unlock(req.Password); err != nil {
		h.writeError(w, err)
		return
	}

	if u := h.service.CurrentUser(); u != nil {
		h.logger.Info("course unlocked", zap.String("userID", u.ID))
	}
	h.GetSelectedCourse(w, r)
}

// BuyNow открывает страницу оплаты выбранного курса.
func (h *Handler) BuyNow(w http.ResponseWriter, r *http.Request) {
	if err := h.service.BuyNow(); err != nil {
		h.writeError(w, err)
		return
	}
	h.GetPayment(w, r)
}

// GetStudentDashboard возвращает личный кабинет студента.
func (h *Handler) GetStudentDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	d := h.service.StudentDashboard()
	// сессия сменилась между проверкой роли и чтением кабинета
	if d == nil || d.User.ID != u.ID {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	h.writeJSON(w, http.StatusOK, studentDashboardResponse{
		User:          newUserResponse(&d.User),
		EnrolledCount: len(d.Enrolled),
		Completed:     d.Completed,
		Certificates:  d.Certificates,
		Enrolled:      newCourseListResponse(d.Enrolled, &d.User),
		Recommended:   newCourseListResponse(d.Recommended, &d.User),
	})
}

type studentDashboardResponse struct {
	User          *userResponse    `json:"user"`
	EnrolledCount int              `json:"enrolledCount"`
	Completed     int              `json:"completed"`
	Certificates  int              `json:"certificates"`
	Enrolled      []courseResponse `json:"enrolled"`
	Recommended   []courseResponse `json:"recommended"`
}
