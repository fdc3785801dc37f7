package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/middleware"
	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/service"
)

type adminDashboardResponse struct {
	Courses          []adminCourseResponse `json:"courses"`
	TotalUsers       int                   `json:"totalUsers"`
	TotalStudents    int                   `json:"totalStudents"`
	TotalEnrollments int                   `json:"totalEnrollments"`
	PendingPayments  int                   `json:"pendingPayments"`
	CatalogValue     int64                 `json:"catalogValue"`
}

// GetAdminDashboard возвращает каталог с паролями и сводные показатели.
func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	d := h.service.AdminDashboard()

	courses := make([]adminCourseResponse, 0, len(d.Courses))
	for _, c := range d.Courses {
		courses = append(courses, newAdminCourseResponse(c))
	}

	h.writeJSON(w, http.StatusOK, adminDashboardResponse{
		Courses:          courses,
		TotalUsers:       d.TotalUsers,
		TotalStudents:    d.TotalStudents,
		TotalEnrollments: d.TotalEnrollments,
		PendingPayments:  d.PendingPayments,
		CatalogValue:     d.CatalogValue,
	})
}

// GetEnrollments возвращает журнал записей на курсы.
func (h *Handler) GetEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments := h.service.Enrollments()
	if len(enrollments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]enrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		resp = append(resp, newEnrollmentResponse(e))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// adminID возвращает идентификатор администратора, проверенного RoleGuard.
func adminID(r *http.Request) string {
	if u, ok := middleware.UserFromContext(r.Context()); ok {
		return u.ID
	}
	return ""
}

type courseRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Price         int64                `json:"price"`
	OriginalPrice int64                `json:"originalPrice"`
	Thumbnail     string               `json:"thumbnail"`
	Instructor    string               `json:"instructor"`
	Duration      string               `json:"duration"`
	Level         model.Level          `json:"level"`
	Category      string               `json:"category"`
	Password      string               `json:"password"`
	Modules       []model.CourseModule `json:"modules"`
	IsPublished   *bool                `json:"isPublished"`
}

func (req courseRequest) form() service.CourseForm {
	return service.CourseForm{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Thumbnail:     req.Thumbnail,
		Instructor:    req.Instructor,
		Duration:      req.Duration,
		Level:         req.Level,
		Category:      req.Category,
		Password:      req.Password,
		Modules:       req.Modules,
		IsPublished:   req.IsPublished,
	}
}

// CreateCourse добавляет курс в каталог.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.CreateCourse(req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("course created by admin", zap.String("adminID", adminID(r)), zap.String("courseID", c.ID))

	h.writeJSON(w, http.StatusCreated, newAdminCourseResponse(*c))
}

// UpdateCourse заменяет курс данными формы.
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.UpdateCourse(chi.URLParam(r, "id"), req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("course updated by admin", zap.String("adminID", adminID(r)), zap.String("courseID", c.ID))

	h.writeJSON(w, http.StatusOK, newAdminCourseResponse(*c))
}

// DeleteCourse удаляет курс из каталога.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCourse(id); err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("course deleted by admin", zap.String("adminID", adminID(r)), zap.String("courseID", id))
	w.WriteHeader(http.StatusNoContent)
}
