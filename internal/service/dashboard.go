package service

import "github.com/mmeshcher/trademaster/internal/model"

const recommendedLimit = 2

// StudentDashboard содержит данные личного кабинета студента.
type StudentDashboard struct {
	User        model.User
	Enrolled    []model.Course
	Recommended []model.Course
	// Прогресс прохождения не отслеживается, поэтому Completed и Certificates всегда нулевые.
	Completed    int
	Certificates int
}

// StudentDashboard возвращает купленные курсы студента и до двух рекомендаций.
// Возвращает nil, если текущий пользователь не студент.
func (s *Service) StudentDashboard() *StudentDashboard {
	u := s.store.CurrentUser()
	if u == nil || u.Role != model.RoleStudent {
		return nil
	}

	d := &StudentDashboard{
		User:        *u,
		Enrolled:    []model.Course{},
		Recommended: []model.Course{},
	}
	for _, c := range s.store.Courses() {
		if u.IsEnrolled(c.ID) {
			d.Enrolled = append(d.Enrolled, c)
			continue
		}
		if len(d.Recommended) < recommendedLimit {
			d.Recommended = append(d.Recommended, c)
		}
	}
	return d
}

// AdminDashboard содержит сводку панели администратора.
type AdminDashboard struct {
	Courses          []model.Course
	TotalUsers       int
	TotalStudents    int
	TotalEnrollments int
	PendingPayments  int
	CatalogValue     int64
}

// AdminDashboard возвращает каталог и сводные показатели.
func (s *Service) AdminDashboard() AdminDashboard {
	d := AdminDashboard{Courses: s.store.Courses()}

	for _, c := range d.Courses {
		d.CatalogValue += c.Price
	}

	users := s.store.Users()
	d.TotalUsers = len(users)
	for _, u := range users {
		if u.Role == model.RoleStudent {
			d.TotalStudents++
		}
	}

	enrollments := s.store.Enrollments()
	d.TotalEnrollments = len(enrollments)
	for _, e := range enrollments {
		if e.PaymentStatus == model.PaymentStatusPending {
			d.PendingPayments++
		}
	}
	return d
}

// Enrollments возвращает журнал записей на курсы.
func (s *Service) Enrollments() []model.Enrollment {
	return s.store.Enrollments()
}

// CurrentUser возвращает пользователя сессии.
func (s *Service) CurrentUser() *model.User {
	return s.store.CurrentUser()
}

// Toast возвращает текущее уведомление.
func (s *Service) Toast() model.Toast {
	return s.store.Toast()
}

// DismissToast закрывает уведомление.
func (s *Service) DismissToast() {
	s.store.HideToast()
}
