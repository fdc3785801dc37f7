// Package store реализует хранилище состояния приложения: каталог, пользователей,
// записи на курсы, текущую сессию, навигацию и уведомления.
//
// Все изменения состояния выполняются только через методы Store. Каждое изменение
// ставит снимок состояния в очередь на сохранение; запись выполняется в фоне
// методом Run, чтение всегда видит актуальное состояние в памяти.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/repository"
)

// DefaultToastDwell задаёт время, через которое уведомление скрывается автоматически.
const DefaultToastDwell = 3 * time.Second

const saveTimeout = 5 * time.Second

// Repository описывает хранилище снимка состояния.
type Repository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type snapshot struct {
	seq  uint64
	data []byte
}

// Store хранит состояние приложения и сериализует все изменения.
type Store struct {
	mu    sync.Mutex
	state model.State

	repo    Repository
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
	upi     *model.UPIDetails
	pending chan snapshot
	seq     uint64

	saveMu    sync.Mutex
	savedSeq  uint64
	toastWait time.Duration
	toastTm   *time.Timer
	toastGen  uint64
}

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт логгер.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator задаёт генератор идентификаторов пользователей.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithToastDwell задаёт время показа уведомления. Ноль отключает автоматическое скрытие.
func WithToastDwell(d time.Duration) Option {
	return func(s *Store) {
		s.toastWait = d
	}
}

// WithUPIDetails переопределяет реквизиты получателя платежей.
func WithUPIDetails(upi model.UPIDetails) Option {
	return func(s *Store) {
		if upi.VPA != "" || upi.Name != "" {
			s.upi = &upi
		}
	}
}

// New создаёт хранилище с начальным состоянием. Если repo равен nil, состояние не сохраняется.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
		pending:   make(chan snapshot, 1),
		toastWait: DefaultToastDwell,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = SeedState(s.now())
	s.applyUPILocked()
	return s
}

// Open создаёт хранилище и восстанавливает состояние из репозитория.
// Если снимка нет или он повреждён, используется начальное состояние.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := New(repo, opts...)
	if repo == nil {
		return s, nil
	}

	data, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			s.logger.Info("no persisted state, starting from seed")
			return s, nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := mergeSnapshot(s.state, data)
	if err != nil {
		s.logger.Warn("persisted state is unreadable, starting from seed", zap.Error(err))
		return s, nil
	}

	s.state = normalize(st)
	s.applyUPILocked()
	if s.state.Toast.Show {
		s.armToastLocked()
	}
	return s, nil
}

// mergeSnapshot накладывает ключи верхнего уровня из снимка на base.
// Отсутствующие в снимке ключи сохраняют значения base.
func mergeSnapshot(base model.State, data []byte) (model.State, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return model.State{}, err
	}

	var decoded model.State
	if err := json.Unmarshal(data, &decoded); err != nil {
		return model.State{}, err
	}

	st := base.Clone()
	if _, ok := keys["currentUser"]; ok {
		st.CurrentUser = decoded.CurrentUser
	}
	if _, ok := keys["currentView"]; ok {
		st.CurrentView = decoded.CurrentView
	}
	if _, ok := keys["selectedCourse"]; ok {
		st.SelectedCourse = decoded.SelectedCourse
	}
	if _, ok := keys["courses"]; ok {
		st.Courses = decoded.Courses
	}
	if _, ok := keys["users"]; ok {
		st.Users = decoded.Users
	}
	if _, ok := keys["enrollments"]; ok {
		st.Enrollments = decoded.Enrollments
	}
	if _, ok := keys["upiDetails"]; ok {
		st.UPIDetails = decoded.UPIDetails
	}
	if _, ok := keys["toast"]; ok {
		st.Toast = decoded.Toast
	}
	return st, nil
}

func normalize(st model.State) model.State {
	st = st.Clone()
	if _, err := model.ParseView(string(st.CurrentView)); err != nil {
		st.CurrentView = model.ViewHome
	}
	if st.Toast.Type == "" {
		st.Toast.Type = model.ToastInfo
	}
	if st.UPIDetails.VPA == "" {
		st.UPIDetails = DefaultUPIDetails
	}
	return st
}

func (s *Store) applyUPILocked() {
	if s.upi != nil {
		s.state.UPIDetails = *s.upi
	}
}

// Run записывает снимки состояния в репозиторий до отмены контекста,
// после чего сохраняет последний ожидающий снимок.
func (s *Store) Run(ctx context.Context) error {
	if s.repo == nil {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return nil
		case snap := <-s.pending:
			s.save(snap)
		}
	}
}

// Flush синхронно сохраняет ожидающий снимок, если он есть.
func (s *Store) Flush() {
	if s.repo == nil {
		return
	}
	select {
	case snap := <-s.pending:
		s.save(snap)
	default:
	}
}

// Close отменяет таймер уведомления и сохраняет ожидающий снимок.
func (s *Store) Close() error {
	s.mu.Lock()
	s.stopToastLocked()
	s.mu.Unlock()

	s.Flush()
	return nil
}

func (s *Store) save(snap snapshot) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if snap.seq <= s.savedSeq {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.repo.Save(ctx, snap.data); err != nil {
		s.logger.Error("save state error", zap.Error(err), zap.Uint64("seq", snap.seq))
		return
	}
	s.savedSeq = snap.seq
}

// commitLocked ставит текущее состояние в очередь на сохранение; в очереди остаётся только последний снимок.
func (s *Store) commitLocked() {
	if s.repo == nil {
		return
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("marshal state error", zap.Error(err))
		return
	}

	s.seq++
	snap := snapshot{seq: s.seq, data: data}

	select {
	case s.pending <- snap:
		return
	default:
	}

	select {
	case <-s.pending:
	default:
	}

	select {
	case s.pending <- snap:
	default:
	}
}

// Snapshot возвращает копию всего состояния.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentUser возвращает копию текущего пользователя или nil.
func (s *Store) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentUser.Clone()
}

// CurrentView возвращает текущий экран.
func (s *Store) CurrentView() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentView
}

// SelectedCourse возвращает копию выбранного курса или nil.
func (s *Store) SelectedCourse() *model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedCourse.Clone()
}

// Courses возвращает копию каталога.
func (s *Store) Courses() []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Course, 0, len(s.state.Courses))
	for i := range s.state.Courses {
		out = append(out, *s.state.Courses[i].Clone())
	}
	return out
}

// Course возвращает копию курса по идентификатору.
func (s *Store) Course(id string) (*model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndexLocked(id)
	if i < 0 {
		return nil, false
	}
	return s.state.Courses[i].Clone(), true
}

// Users возвращает копию списка пользователей.
func (s *Store) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, 0, len(s.state.Users))
	for i := range s.state.Users {
		out = append(out, *s.state.Users[i].Clone())
	}
	return out
}

// Enrollments возвращает копию журнала записей на курсы.
func (s *Store) Enrollments() []model.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Enrollments)
}

// UPIDetails возвращает реквизиты получателя платежей.
func (s *Store) UPIDetails() model.UPIDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UPIDetails
}

// Toast возвращает текущее уведомление.
func (s *Store) Toast() model.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Toast
}

// SetCurrentUser заменяет пользователя сессии; nil означает выход.
func (s *Store) SetCurrentUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentUser = u.Clone()
	s.commitLocked()
}

// SetCurrentView переключает текущий экран без каких-либо проверок.
func (s *Store) SetCurrentView(v model.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentView = v
	s.commitLocked()
}

// SetSelectedCourse заменяет выбранный курс; nil сбрасывает выбор.
func (s *Store) SetSelectedCourse(c *model.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedCourse = c.Clone()
	s.commitLocked()
}

// AddCourse добавляет курс в конец каталога.
func (s *Store) AddCourse(c model.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Courses = append(s.state.Courses, *c.Clone())
	s.commitLocked()
}

// UpdateCourse заменяет курс с тем же идентификатором. Возвращает false, если курса нет; состояние при этом не меняется.
func (s *Store) UpdateCourse(c model.Course) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndexLocked(c.ID)
	if i < 0 {
		return false
	}
	s.state.Courses[i] = *c.Clone()
	s.commitLocked()
	return true
}

// DeleteCourse удаляет курс из каталога. Возвращает false, если курса нет; состояние при этом не меняется.
func (s *Store) DeleteCourse(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndexLocked(id)
	if i < 0 {
		return false
	}
	s.state.Courses = slices.Delete(s.state.Courses, i, i+1)
	s.commitLocked()
	return true
}

// AddUser добавляет пользователя.
func (s *Store) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Users = append(s.state.Users, *u.Clone())
	s.commitLocked()
}

// EnrollStudent добавляет запись в журнал записей на курсы. Доступ к курсу при этом не открывается.
func (s *Store) EnrollStudent(e model.Enrollment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Enrollments = append(s.state.Enrollments, e)
	s.commitLocked()
}

// UnlockCourse открывает курс текущему пользователю при точном совпадении пароля.
// Возвращает false, если курса нет, пароль не совпал или пользователь не задан.
func (s *Store) UnlockCourse(courseID, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndexLocked(courseID)
	if i < 0 || s.state.Courses[i].Password != password {
		return false
	}

	cur := s.state.CurrentUser
	if cur == nil {
		return false
	}

	if !cur.IsEnrolled(courseID) {
		cur.EnrolledCourses = append(cur.EnrolledCourses, courseID)
	}
	for j := range s.state.Users {
		u := &s.state.Users[j]
		if u.ID == cur.ID && !u.IsEnrolled(courseID) {
			u.EnrolledCourses = append(u.EnrolledCourses, courseID)
		}
	}

	s.commitLocked()
	return true
}

// ShowToast показывает уведомление и запускает таймер автоматического скрытия.
func (s *Store) ShowToast(message string, t model.ToastType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Toast = model.Toast{Show: true, Message: message, Type: t}
	s.armToastLocked()
	s.commitLocked()
}

// HideToast скрывает уведомление и сбрасывает его содержимое.
func (s *Store) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopToastLocked()
	s.hideToastLocked()
}

func (s *Store) hideToastLocked() {
	s.state.Toast = model.Toast{Show: false, Message: "", Type: model.ToastInfo}
	s.commitLocked()
}

func (s *Store) armToastLocked() {
	s.stopToastLocked()
	if s.toastWait <= 0 {
		return
	}

	gen := s.toastGen
	s.toastTm = time.AfterFunc(s.toastWait, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// уведомление уже заменено или скрыто вручную
		if gen != s.toastGen {
			return
		}
		s.toastTm = nil
		s.hideToastLocked()
	})
}

func (s *Store) stopToastLocked() {
	s.toastGen++
	if s.toastTm != nil {
		s.toastTm.Stop()
		s.toastTm = nil
	}
}

// Login ищет пользователя по email и делает его текущим. Пароль не проверяется.
// Возвращает nil, если пользователь не найден; текущий пользователь при этом не меняется.
func (s *Store) Login(email, _ string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Users {
		if s.state.Users[i].Email == email {
			s.state.CurrentUser = s.state.Users[i].Clone()
			s.commitLocked()
			return s.state.CurrentUser.Clone()
		}
	}
	return nil
}

// Register создаёт студента с пустым списком курсов и делает его текущим пользователем.
func (s *Store) Register(email, _, name string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{
		ID:              s.newID(),
		Email:           email,
		Name:            name,
		Role:            model.RoleStudent,
		EnrolledCourses: []string{},
		CreatedAt:       s.now(),
	}

	s.state.Users = append(s.state.Users, u)
	s.state.CurrentUser = u.Clone()
	s.commitLocked()
	return *u.Clone()
}

func (s *Store) courseIndexLocked(id string) int {
	return slices.IndexFunc(s.state.Courses, func(c model.Course) bool {
		return c.ID == id
	})
}
