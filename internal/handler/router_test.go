package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/service"
	"github.com/mmeshcher/trademaster/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.New(nil, store.WithToastDwell(0))
	svc := service.NewService(st, service.WithRedirectDelay(0))
	h := NewHandler(svc, zap.NewNop())

	srv := httptest.NewServer(h.SetupRouter())
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
		_ = st.Close()
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestRouter_AdminRoutesGuarded(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodGet, "/api/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodPost, "/api/auth/register",
		`{"email":"s@x.com","password":"pw","name":"Stu"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, srv, http.MethodGet, "/api/admin/dashboard", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, srv, http.MethodGet, "/api/dashboard/student", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_UnlockFlow(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodPost, "/api/auth/register",
		`{"email":"s@x.com","password":"pw","name":"Stu"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, srv, http.MethodPost, "/api/courses/1/select", "")
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodPost, "/api/course/unlock", `{"password":"WRONG"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), service.MsgUnlockFailed)

	status, body = do(t, srv, http.MethodPost, "/api/course/unlock", `{"password":"STOCK101"}`)
	require.Equal(t, http.StatusOK, status)

	var course courseResponse
	require.NoError(t, json.Unmarshal(body, &course))
	assert.True(t, course.Enrolled)
	for _, m := range course.Modules {
		assert.False(t, m.Locked, "module %s", m.ID)
	}

	status, body = do(t, srv, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, status)

	var state stateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, []string{"1"}, state.CurrentUser.EnrolledCourses)
	assert.Equal(t, model.ViewCourseDetail, state.ResolvedView)
	assert.Equal(t, service.MsgUnlocked, state.Toast.Message)
}

func TestRouter_PaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodGet, "/api/payment", "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, srv, http.MethodPost, "/api/courses/1/select", "")
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodPost, "/api/course/buy", "")
	require.Equal(t, http.StatusOK, status)

	var p paymentResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "upi://pay?pa=yourupi@upi&pn=TradeMaster%20Academy&am=1999&cu=INR&tn=Course%3A%20Stock%20Market%20Fundamentals", p.DeepLink)
	assert.Equal(t, int64(1999), p.Amount)

	status, _ = do(t, srv, http.MethodPost, "/api/payment/submit", `{"transactionId":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/api/payment/submit", `{"transactionId":"UTR123"}`)
	assert.Equal(t, http.StatusAccepted, status)

	status, body = do(t, srv, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, status)

	var state stateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, model.ViewCourses, state.CurrentView)
}

func TestRouter_AdminCourseCRUD(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodPost, "/api/auth/login", `{"email":"admin@trademaster.com","password":"admin"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodPost, "/api/admin/courses", `{"title":"","price":0}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, srv, http.MethodPost, "/api/admin/courses",
		`{"title":"Intraday Basics","price":499,"password":"DAY1"}`)
	require.Equal(t, http.StatusCreated, status)

	var created adminCourseResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "DAY1", created.Password)
	assert.Equal(t, model.LevelBeginner, created.Level)
	assert.Equal(t, int64(499), created.OriginalPrice)

	status, _ = do(t, srv, http.MethodPut, "/api/admin/courses/"+created.ID,
		`{"title":"Intraday Basics II","price":599,"password":"DAY2"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodPut, "/api/admin/courses/missing",
		`{"title":"x","price":1,"password":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, srv, http.MethodDelete, "/api/admin/courses/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, srv, http.MethodGet, "/api/courses/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_PublicCatalogHidesPasswords(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/api/courses", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), "STOCK101")

	var courses []courseResponse
	require.NoError(t, json.Unmarshal(body, &courses))
	assert.Len(t, courses, 4)
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, srv, http.MethodPut, "/api/state", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}
