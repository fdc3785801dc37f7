// Package service реализует сценарии взаимодействия пользователя с платформой:
// вход, регистрацию, просмотр каталога, разблокировку курсов, оплату и администрирование.
package service

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/payment"
	"github.com/mmeshcher/trademaster/internal/validation"
)

var (
	// ErrValidation возвращается, если не заполнены обязательные поля формы.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials возвращается, если пользователь с таким email не найден.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnlockFailed возвращается при неверном пароле курса.
	ErrUnlockFailed = errors.New("incorrect course password")
	// ErrCourseNotFound возвращается, если курса с указанным идентификатором нет.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNoCourseSelected возвращается, если сценарий требует выбранного курса.
	ErrNoCourseSelected = errors.New("no course selected")
	// ErrLoginRequired возвращается, если сценарий требует вошедшего пользователя.
	ErrLoginRequired = errors.New("login required")
)

// Тексты уведомлений.
const (
	MsgWelcomeBack        = "Welcome back!"
	MsgInvalidCredentials = "Invalid credentials. Try admin@trademaster.com / admin"
	MsgFillAllFields      = "Please fill all fields"
	MsgRegistered         = "Registration successful!"
	MsgUnlocked           = "Course unlocked successfully!"
	MsgUnlockFailed       = "Incorrect password. Contact admin for access."
	MsgLoginToUnlock      = "Please login to unlock this course"
	MsgUPICopied          = "UPI ID copied!"
	MsgEnterTransaction   = "Please enter transaction ID"
	MsgPaymentSubmitted   = "Payment verification request submitted!"
	MsgCourseCreated      = "Course created successfully!"
	MsgCourseUpdated      = "Course updated successfully!"
	MsgCourseDeleted      = "Course deleted"
	MsgCourseRequired     = "Please fill title, price and password"
)

// Значения по умолчанию для курса, созданного администратором.
const (
	DefaultThumbnail  = "https://images.unsplash.com/photo-1642790106117-e829e14a795f?w=800&q=80"
	DefaultDuration   = "10 hours"
	DefaultInstructor = "TradeMaster Academy"
	DefaultCategory   = "General"
)

// DefaultRedirectDelay задаёт задержку перед возвратом в каталог после отправки данных об оплате.
const DefaultRedirectDelay = 2 * time.Second

// Store описывает хранилище состояния, через которое выполняются все изменения.
type Store interface {
	Snapshot() model.State
	CurrentUser() *model.User
	SelectedCourse() *model.Course
	Course(id string) (*model.Course, bool)
	Courses() []model.Course
	Users() []model.User
	Enrollments() []model.Enrollment
	UPIDetails() model.UPIDetails
	Toast() model.Toast

	SetCurrentUser(u *model.User)
	SetCurrentView(v model.View)
	SetSelectedCourse(c *model.Course)
	AddCourse(c model.Course)
	UpdateCourse(c model.Course) bool
	DeleteCourse(id string) bool
	EnrollStudent(e model.Enrollment)
	UnlockCourse(courseID, password string) bool
	ShowToast(message string, t model.ToastType)
	HideToast()
	Login(email, password string) *model.User
	Register(email, password, name string) model.User
}

// Service содержит сценарии взаимодействия поверх хранилища состояния.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	redirectDelay time.Duration
	mu            sync.Mutex
	redirect      *time.Timer
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт логгер.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator задаёт генератор идентификаторов курсов.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithRedirectDelay задаёт задержку перехода в каталог после оплаты. При нуле переход выполняется сразу.
func WithRedirectDelay(d time.Duration) Option {
	return func(s *Service) {
		s.redirectDelay = d
	}
}

// NewService создаёт сервис поверх хранилища состояния.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		logger:        zap.NewNop(),
		now:           time.Now,
		newID:         uuid.NewString,
		redirectDelay: DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close отменяет отложенный переход.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redirect != nil {
		s.redirect.Stop()
		s.redirect = nil
	}
	return nil
}

// StateView содержит снимок состояния вместе с экраном, который фактически следует показать.
type StateView struct {
	State        model.State `json:"state"`
	ResolvedView model.View  `json:"resolvedView"`
}

// State возвращает текущее состояние и разрешённый экран.
func (s *Service) State() StateView {
	st := s.store.Snapshot()
	return StateView{State: st, ResolvedView: ResolveView(st)}
}

// ResolveView возвращает экран, который можно показать для данного состояния:
// экраны курса без выбранного курса заменяются каталогом, а панели чужой роли главной.
func ResolveView(st model.State) model.View {
	switch st.CurrentView {
	case model.ViewHome, model.ViewCourses:
		return st.CurrentView
	case model.ViewCourseDetail, model.ViewPayment:
		if st.SelectedCourse == nil {
			return model.ViewCourses
		}
		return st.CurrentView
	case model.ViewAdminDashboard:
		if st.CurrentUser != nil && st.CurrentUser.Role == model.RoleAdmin {
			return st.CurrentView
		}
	case model.ViewStudentDashboard:
		if st.CurrentUser != nil && st.CurrentUser.Role == model.RoleStudent {
			return st.CurrentView
		}
	}
	return model.ViewHome
}

// Navigate переключает текущий экран.
func (s *Service) Navigate(v model.View) {
	s.store.SetCurrentView(v)
}

// NavLink описывает пункт навигационного меню.
type NavLink struct {
	Label string     `json:"label"`
	View  model.View `json:"view"`
}

// NavLinks возвращает пункты меню для текущего пользователя.
func (s *Service) NavLinks() []NavLink {
	links := []NavLink{
		{Label: "Home", View: model.ViewHome},
		{Label: "Courses", View: model.ViewCourses},
	}

	u := s.store.CurrentUser()
	switch {
	case u == nil:
	case u.Role == model.RoleAdmin:
		links = append(links, NavLink{Label: "Admin", View: model.ViewAdminDashboard})
	case u.Role == model.RoleStudent:
		links = append(links, NavLink{Label: "My Learning", View: model.ViewStudentDashboard})
	}
	return links
}

// Login выполняет вход по email; пароль не проверяется.
func (s *Service) Login(email, password string) (*model.User, error) {
	u := s.store.Login(email, password)
	if u == nil {
		s.store.ShowToast(MsgInvalidCredentials, model.ToastError)
		return nil, ErrInvalidCredentials
	}

	s.store.ShowToast(MsgWelcomeBack, model.ToastSuccess)
	return u, nil
}

// Register регистрирует студента и делает его текущим пользователем.
func (s *Service) Register(email, password, name string) (*model.User, error) {
	err := validation.Struct(validation.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		s.store.ShowToast(MsgFillAllFields, model.ToastError)
		return nil, errors.Join(ErrValidation, err)
	}

	u := s.store.Register(email, password, name)
	s.store.ShowToast(MsgRegistered, model.ToastSuccess)
	s.logger.Info("user registered", zap.String("userID", u.ID))
	return &u, nil
}

// Logout завершает сессию и возвращает на главную.
func (s *Service) Logout() {
	s.store.SetCurrentUser(nil)
	s.store.SetCurrentView(model.ViewHome)
}

// ViewCourse выбирает курс и открывает его страницу.
func (s *Service) ViewCourse(id string) (*model.Course, error) {
	c, ok := s.store.Course(id)
	if !ok {
		return nil, ErrCourseNotFound
	}
	s.store.SetSelectedCourse(c)
	s.store.SetCurrentView(model.ViewCourseDetail)
	return c, nil
}

// FeaturedCourse открывает первый курс каталога.
func (s *Service) FeaturedCourse() (*model.Course, error) {
	courses := s.store.Courses()
	if len(courses) == 0 {
		return nil, ErrCourseNotFound
	}
	return s.ViewCourse(courses[0].ID)
}

// CatalogEntry описывает курс каталога с признаком доступа текущего пользователя.
type CatalogEntry struct {
	Course   model.Course
	Enrolled bool
}

// Catalog возвращает все курсы каталога.
func (s *Service) Catalog() []CatalogEntry {
	u := s.store.CurrentUser()
	courses := s.store.Courses()

	res := make([]CatalogEntry, 0, len(courses))
	for _, c := range courses {
		res = append(res, CatalogEntry{Course: c, Enrolled: u.IsEnrolled(c.ID)})
	}
	return res
}

// ModuleView описывает модуль курса с вычисленной блокировкой.
type ModuleView struct {
	Module model.CourseModule
	Locked bool
}

// CourseView описывает страницу курса для текущего пользователя.
type CourseView struct {
	Course          model.Course
	Enrolled        bool
	IsAdmin         bool
	DiscountPercent int
	Modules         []ModuleView
}

// CourseDetails возвращает страницу курса. Все модули, кроме первого, закрыты,
// пока курс не разблокирован; администратору открыто всё.
func (s *Service) CourseDetails(id string) (*CourseView, error) {
	c, ok := s.store.Course(id)
	if !ok {
		return nil, ErrCourseNotFound
	}
	return s.courseView(*c), nil
}

// SelectedCourseDetails возвращает страницу выбранного курса.
func (s *Service) SelectedCourseDetails() (*CourseView, error) {
	c := s.store.SelectedCourse()
	if c == nil {
		return nil, ErrNoCourseSelected
	}
	return s.courseView(*c), nil
}

func (s *Service) courseView(c model.Course) *CourseView {
	u := s.store.CurrentUser()
	enrolled := u.IsEnrolled(c.ID)
	isAdmin := u != nil && u.Role == model.RoleAdmin

	modules := make([]ModuleView, 0, len(c.Modules))
	for i, m := range c.Modules {
		modules = append(modules, ModuleView{
			Module: m,
			Locked: !enrolled && !isAdmin && i > 0,
		})
	}

	return &CourseView{
		Course:          c,
		Enrolled:        enrolled,
		IsAdmin:         isAdmin,
		DiscountPercent: DiscountPercent(c),
		Modules:         modules,
	}
}

// DiscountPercent возвращает скидку относительно исходной цены в процентах.
func DiscountPercent(c model.Course) int {
	if c.OriginalPrice <= 0 || c.OriginalPrice <= c.Price {
		return 0
	}
	return int(math.Round(float64(c.OriginalPrice-c.Price) / float64(c.OriginalPrice) * 100))
}

// Unlock разблокирует выбранный курс по паролю.
func (s *Service) Unlock(password string) error {
	c := s.store.SelectedCourse()
	if c == nil {
		return ErrNoCourseSelected
	}

	if s.store.CurrentUser() == nil {
		s.store.ShowToast(MsgLoginToUnlock, model.ToastError)
		return ErrLoginRequired
	}

	if !s.store.UnlockCourse(c.ID, password) {
		s.store.ShowToast(MsgUnlockFailed, model.ToastError)
		return ErrUnlockFailed
	}

	s.store.ShowToast(MsgUnlocked, model.ToastSuccess)
	return nil
}

// BuyNow открывает страницу оплаты выбранного курса.
func (s *Service) BuyNow() error {
	if s.store.SelectedCourse() == nil {
		return ErrNoCourseSelected
	}
	s.store.SetCurrentView(model.ViewPayment)
	return nil
}

// PaymentDetails содержит данные страницы оплаты.
type PaymentDetails struct {
	Course   model.Course
	UPI      model.UPIDetails
	DeepLink string
	Currency string
}

// PaymentDetails возвращает реквизиты и платёжную ссылку для выбранного курса.
func (s *Service) PaymentDetails() (*PaymentDetails, error) {
	c := s.store.SelectedCourse()
	if c == nil {
		return nil, ErrNoCourseSelected
	}

	upi := s.store.UPIDetails()
	return &PaymentDetails{
		Course:   *c,
		UPI:      upi,
		DeepLink: payment.DeepLink(upi, *c),
		Currency: payment.Currency,
	}, nil
}

// CopyUPI возвращает платёжный адрес и сообщает о копировании.
func (s *Service) CopyUPI() string {
	vpa := s.store.UPIDetails().VPA
	s.store.ShowToast(MsgUPICopied, model.ToastSuccess)
	return vpa
}

// SubmitPayment принимает номер транзакции, записывает ожидающую подтверждения запись
// на курс для текущего пользователя и после задержки возвращает в каталог.
// Доступ к курсу при этом не открывается.
func (s *Service) SubmitPayment(transactionID string) error {
	c := s.store.SelectedCourse()
	if c == nil {
		return ErrNoCourseSelected
	}

	if err := validation.Struct(validation.PaymentSubmission{TransactionID: transactionID}); err != nil {
		s.store.ShowToast(MsgEnterTransaction, model.ToastError)
		return errors.Join(ErrValidation, err)
	}

	if u := s.store.CurrentUser(); u != nil {
		s.store.EnrollStudent(model.Enrollment{
			UserID:        u.ID,
			CourseID:      c.ID,
			EnrolledAt:    s.now(),
			PaymentStatus: model.PaymentStatusPending,
			TransactionID: strings.TrimSpace(transactionID),
		})
	}

	s.store.ShowToast(MsgPaymentSubmitted, model.ToastSuccess)
	s.logger.Info("payment submitted", zap.String("courseID", c.ID))
	s.scheduleRedirect(model.ViewCourses)
	return nil
}

func (s *Service) scheduleRedirect(v model.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redirect != nil {
		s.redirect.Stop()
		s.redirect = nil
	}

	if s.redirectDelay <= 0 {
		s.store.SetCurrentView(v)
		return
	}
	s.redirect = time.AfterFunc(s.redirectDelay, func() {
		s.store.SetCurrentView(v)
	})
}

// CourseForm содержит данные формы курса в панели администратора.
type CourseForm struct {
	Title         string
	Description   string
	Price         int64
	OriginalPrice int64
	Thumbnail     string
	Instructor    string
	Duration      string
	Level         model.Level
	Category      string
	Password      string
	Modules       []model.CourseModule
	IsPublished   *bool
}

// CreateCourse создаёт курс из формы, заполняя незаданные поля значениями по умолчанию.
func (s *Service) CreateCourse(f CourseForm) (*model.Course, error) {
	if err := s.validateCourse(f); err != nil {
		return nil, err
	}

	now := s.now()
	c := model.Course{
		ID:          s.newID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		IsPublished: true,
	}
	applyForm(&c, f, newCourseDefaults())

	s.store.AddCourse(c)
	s.store.ShowToast(MsgCourseCreated, model.ToastSuccess)
	s.logger.Info("course created", zap.String("courseID", c.ID))
	return &c, nil
}

// UpdateCourse заменяет курс данными формы.
func (s *Service) UpdateCourse(id string, f CourseForm) (*model.Course, error) {
	existing, ok := s.store.Course(id)
	if !ok {
		return nil, ErrCourseNotFound
	}
	if err := s.validateCourse(f); err != nil {
		return nil, err
	}

	c := *existing
	c.UpdatedAt = s.now()
	applyForm(&c, f, *existing)

	if !s.store.UpdateCourse(c) {
		return nil, ErrCourseNotFound
	}
	s.store.ShowToast(MsgCourseUpdated, model.ToastSuccess)
	return &c, nil
}

// DeleteCourse удаляет курс из каталога.
func (s *Service) DeleteCourse(id string) error {
	if !s.store.DeleteCourse(id) {
		return ErrCourseNotFound
	}
	s.store.ShowToast(MsgCourseDeleted, model.ToastSuccess)
	s.logger.Info("course deleted", zap.String("courseID", id))
	return nil
}

func (s *Service) validateCourse(f CourseForm) error {
	err := validation.Struct(validation.CourseInput{Title: f.Title, Price: f.Price, Password: f.Password})
	if err != nil {
		s.store.ShowToast(MsgCourseRequired, model.ToastError)
		return errors.Join(ErrValidation, err)
	}
	return nil
}

// newCourseDefaults возвращает значения незаполненных полей для нового курса.
func newCourseDefaults() model.Course {
	return model.Course{
		Thumbnail:  DefaultThumbnail,
		Duration:   DefaultDuration,
		Instructor: DefaultInstructor,
		Category:   DefaultCategory,
		Level:      model.LevelBeginner,
	}
}

// applyForm переносит данные формы в курс. Незаполненные поля формы берутся из base:
// при создании это значения по умолчанию, при обновлении текущий курс.
func applyForm(c *model.Course, f CourseForm, base model.Course) {
	c.Title = strings.TrimSpace(f.Title)
	c.Description = withDefault(f.Description, base.Description)
	c.Price = f.Price
	c.Password = f.Password

	switch {
	case f.OriginalPrice > 0:
		c.OriginalPrice = f.OriginalPrice
	case base.OriginalPrice > 0:
		c.OriginalPrice = base.OriginalPrice
	default:
		c.OriginalPrice = f.Price
	}
	c.Thumbnail = withDefault(f.Thumbnail, base.Thumbnail)
	c.Duration = withDefault(f.Duration, base.Duration)
	c.Instructor = withDefault(f.Instructor, base.Instructor)
	c.Category = withDefault(f.Category, base.Category)

	c.Level = f.Level
	if !c.Level.Valid() {
		c.Level = base.Level
	}
	if !c.Level.Valid() {
		c.Level = model.LevelBeginner
	}

	if f.Modules == nil {
		c.Modules = slices.Clone(base.Modules)
		if c.Modules == nil {
			c.Modules = []model.CourseModule{}
		}
	} else {
		c.Modules = make([]model.CourseModule, 0, len(f.Modules))
		for i, m := range f.Modules {
			if m.ID == "" {
				m.ID = "m" + strconv.Itoa(i+1)
			}
			if m.Order == 0 {
				m.Order = i + 1
			}
			m.IsLocked = m.Order > 1
			c.Modules = append(c.Modules, m)
		}
	}

	if f.IsPublished != nil {
		c.IsPublished = *f.IsPublished
	}
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
