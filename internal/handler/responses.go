package handler

import (
	"time"

	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/service"
)

type userResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            model.Role `json:"role"`
	EnrolledCourses []string   `json:"enrolledCourses"`
	CreatedAt       string     `json:"createdAt"`
}

func newUserResponse(u *model.User) *userResponse {
	if u == nil {
		return nil
	}
	enrolled := u.EnrolledCourses
	if enrolled == nil {
		enrolled = []string{}
	}
	return &userResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		EnrolledCourses: enrolled,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}

type moduleResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	Locked      bool   `json:"locked"`
	Content     string `json:"content,omitempty"`
}

// courseResponse описывает курс для публичных ответов. Пароль разблокировки в него не попадает.
type courseResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           int64            `json:"price"`
	OriginalPrice   int64            `json:"originalPrice"`
	DiscountPercent int              `json:"discountPercent"`
	Thumbnail       string           `json:"thumbnail"`
	Instructor      string           `json:"instructor"`
	Duration        string           `json:"duration"`
	Level           model.Level      `json:"level"`
	Category        string           `json:"category"`
	ModuleCount     int              `json:"moduleCount"`
	Enrolled        bool             `json:"enrolled"`
	Modules         []moduleResponse `json:"modules,omitempty"`
}

func newCourseResponse(c model.Course, enrolled bool) courseResponse {
	return courseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           c.Price,
		OriginalPrice:   c.OriginalPrice,
		DiscountPercent: service.DiscountPercent(c),
		Thumbnail:       c.Thumbnail,
		Instructor:      c.Instructor,
		Duration:        c.Duration,
		Level:           c.Level,
		Category:        c.Category,
		ModuleCount:     len(c.Modules),
		Enrolled:        enrolled,
	}
}

// newCourseDetailResponse добавляет модули; содержимое закрытых модулей не отдаётся.
func newCourseDetailResponse(v *service.CourseView) courseResponse {
	resp := newCourseResponse(v.Course, v.Enrolled)
	resp.Modules = make([]moduleResponse, 0, len(v.Modules))
	for _, m := range v.Modules {
		mr := moduleResponse{
			ID:          m.Module.ID,
			Title:       m.Module.Title,
			Description: m.Module.Description,
			Duration:    m.Module.Duration,
			Order:       m.Module.Order,
			Locked:      m.Locked,
		}
		if !m.Locked {
			mr.Content = m.Module.Content
		}
		resp.Modules = append(resp.Modules, mr)
	}
	return resp
}

func newCourseListResponse(courses []model.Course, u *model.User) []courseResponse {
	resp := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, newCourseResponse(c, u.IsEnrolled(c.ID)))
	}
	return resp
}

// adminCourseResponse описывает курс целиком, вместе с паролем.
type adminCourseResponse struct {
	model.Course
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func newAdminCourseResponse(c model.Course) adminCourseResponse {
	return adminCourseResponse{
		Course:    c,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type enrollmentResponse struct {
	UserID        string              `json:"userId"`
	CourseID      string              `json:"courseId"`
	EnrolledAt    string              `json:"enrolledAt"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	TransactionID string              `json:"transactionId,omitempty"`
}

func newEnrollmentResponse(e model.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		UserID:        e.UserID,
		CourseID:      e.CourseID,
		EnrolledAt:    e.EnrolledAt.Format(time.RFC3339),
		PaymentStatus: e.PaymentStatus,
		TransactionID: e.TransactionID,
	}
}
