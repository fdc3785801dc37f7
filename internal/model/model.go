// Package model содержит доменные сущности платформы TradeMaster.
package model

import (
	"fmt"
	"slices"
	"time"
)

// Role описывает роль пользователя.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User представляет пользователя платформы.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            Role      `json:"role"`
	EnrolledCourses []string  `json:"enrolledCourses"`
	CreatedAt       time.Time `json:"createdAt"`
}

// IsEnrolled сообщает, открыт ли пользователю курс с указанным идентификатором.
func (u *User) IsEnrolled(courseID string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.EnrolledCourses, courseID)
}

// Clone возвращает глубокую копию пользователя.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.EnrolledCourses = slices.Clone(u.EnrolledCourses)
	if c.EnrolledCourses == nil {
		c.EnrolledCourses = []string{}
	}
	return &c
}

// Level описывает уровень сложности курса.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid сообщает, является ли значение допустимым уровнем.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// CourseModule описывает модуль курса.
type CourseModule struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	IsLocked    bool   `json:"isLocked"`
}

// Course описывает видеокурс каталога.
type Course struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Price         int64          `json:"price"`
	OriginalPrice int64          `json:"originalPrice"`
	Thumbnail     string         `json:"thumbnail"`
	Modules       []CourseModule `json:"modules"`
	Instructor    string         `json:"instructor"`
	Duration      string         `json:"duration"`
	Level         Level          `json:"level"`
	Category      string         `json:"category"`
	Password      string         `json:"password"`
	IsPublished   bool           `json:"isPublished"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Clone возвращает глубокую копию курса.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Modules = slices.Clone(c.Modules)
	if cp.Modules == nil {
		cp.Modules = []CourseModule{}
	}
	return &cp
}

// PaymentStatus описывает статус оплаты записи на курс.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Enrollment описывает запись о покупке курса пользователем.
type Enrollment struct {
	UserID        string        `json:"userId"`
	CourseID      string        `json:"courseId"`
	EnrolledAt    time.Time     `json:"enrolledAt"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TransactionID string        `json:"transactionId,omitempty"`
}

// UPIDetails содержит реквизиты получателя платежа UPI.
type UPIDetails struct {
	VPA  string `json:"vpa"`
	Name string `json:"name"`
}

// ToastType описывает тип уведомления.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
)

// Toast описывает всплывающее уведомление интерфейса.
type Toast struct {
	Show    bool      `json:"show"`
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
}

// View описывает экран, который сейчас отображается пользователю.
type View string

const (
	ViewHome             View = "home"
	ViewCourses          View = "courses"
	ViewCourseDetail     View = "course-detail"
	ViewPayment          View = "payment"
	ViewAdminDashboard   View = "admin-dashboard"
	ViewStudentDashboard View = "student-dashboard"
)

var views = []View{
	ViewHome,
	ViewCourses,
	ViewCourseDetail,
	ViewPayment,
	ViewAdminDashboard,
	ViewStudentDashboard,
}

// ParseView проверяет имя экрана.
func ParseView(s string) (View, error) {
	v := View(s)
	if !slices.Contains(views, v) {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return v, nil
}

// State содержит полное состояние приложения, которое сохраняется между перезапусками.
type State struct {
	CurrentUser    *User        `json:"currentUser"`
	CurrentView    View         `json:"currentView"`
	SelectedCourse *Course      `json:"selectedCourse"`
	Courses        []Course     `json:"courses"`
	Users          []User       `json:"users"`
	Enrollments    []Enrollment `json:"enrollments"`
	UPIDetails     UPIDetails   `json:"upiDetails"`
	Toast          Toast        `json:"toast"`
}

// Clone возвращает глубокую копию состояния.
func (s State) Clone() State {
	cp := s
	cp.CurrentUser = s.CurrentUser.Clone()
	cp.SelectedCourse = s.SelectedCourse.Clone()

	cp.Courses = make([]Course, 0, len(s.Courses))
	for i := range s.Courses {
		cp.Courses = append(cp.Courses, *s.Courses[i].Clone())
	}

	cp.Users = make([]User, 0, len(s.Users))
	for i := range s.Users {
		cp.Users = append(cp.Users, *s.Users[i].Clone())
	}

	cp.Enrollments = slices.Clone(s.Enrollments)
	if cp.Enrollments == nil {
		cp.Enrollments = []Enrollment{}
	}
	return cp
}
