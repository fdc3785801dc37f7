// Package handler содержит HTTP-обработчики API платформы TradeMaster.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/middleware"
	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/service"
)

// Service определяет контракт сценариев, используемых HTTP-обработчиками.
type Service interface {
	State() service.StateView
	Navigate(v model.View)
	NavLinks() []service.NavLink
	CurrentUser() *model.User

	Login(email, password string) (*model.User, error)
	Register(email, password, name string) (*model.User, error)
	Logout()

	Catalog() []service.CatalogEntry
	ViewCourse(id string) (*model.Course, error)
	FeaturedCourse() (*model.Course, error)
	CourseDetails(id string) (*service.CourseView, error)
	SelectedCourseDetails() (*service.CourseView, error)
	Unlock(password string) error
	BuyNow() error

	PaymentDetails() (*service.PaymentDetails, error)
	CopyUPI() string
	SubmitPayment(transactionID string) error

	Toast() model.Toast
	DismissToast()

	StudentDashboard() *service.StudentDashboard
	AdminDashboard() service.AdminDashboard
	Enrollments() []model.Enrollment
	CreateCourse(f service.CourseForm) (*model.Course, error)
	UpdateCourse(id string, f service.CourseForm) (*model.Course, error)
	DeleteCourse(id string) error
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service Service
	logger  *zap.Logger
	guard   *middleware.RoleGuard
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		guard:   middleware.NewRoleGuard(s.CurrentUser),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Toast string `json:"toast,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// writeError отвечает кодом, соответствующим ошибке сценария, и текстом показанного уведомления.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnlockFailed),
		errors.Is(err, service.ErrLoginRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrCourseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNoCourseSelected):
		status = http.StatusConflict
	default:
		h.logger.Error("unexpected service error", zap.Error(err))
	}

	resp := errorResponse{Error: err.Error()}
	if t := h.service.Toast(); t.Show && t.Type == model.ToastError {
		resp.Toast = t.Message
	}
	h.writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

type stateResponse struct {
	CurrentUser    *userResponse   `json:"currentUser"`
	CurrentView    model.View      `json:"currentView"`
	ResolvedView   model.View      `json:"resolvedView"`
	SelectedCourse *courseResponse `json:"selectedCourse"`
	Toast          model.Toast     `json:"toast"`
}

// GetState возвращает состояние сессии: пользователя, экран, выбранный курс и уведомление.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	sv := h.service.State()

	resp := stateResponse{
		CurrentUser:  newUserResponse(sv.State.CurrentUser),
		CurrentView:  sv.State.CurrentView,
		ResolvedView: sv.ResolvedView,
		Toast:        sv.State.Toast,
	}
	if c := sv.State.SelectedCourse; c != nil {
		cr := newCourseResponse(*c, sv.State.CurrentUser.IsEnrolled(c.ID))
		resp.SelectedCourse = &cr
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type viewRequest struct {
	View string `json:"view"`
}

// SetView переключает текущий экран.
func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := model.ParseView(req.View)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.service.Navigate(v)
	h.GetState(w, r)
}

// GetNav возвращает пункты меню для текущего пользователя.
func (h *Handler) GetNav(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.NavLinks())
}

// GetToast возвращает текущее уведомление.
func (h *Handler) GetToast(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Toast())
}

// DismissToast закрывает уведомление.
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.service.DismissToast()
	w.WriteHeader(http.StatusNoContent)
}
