package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmeshcher/trademaster/internal/model"
)

func TestRoleGuard(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		role       model.Role
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "no user",
			user:       nil,
			role:       model.RoleAdmin,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role",
			user:       &model.User{ID: "s1", Role: model.RoleStudent},
			role:       model.RoleAdmin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "matching role",
			user:       &model.User{ID: "admin1", Role: model.RoleAdmin},
			role:       model.RoleAdmin,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRoleGuard(func() *model.User { return tt.user })

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				u, ok := UserFromContext(r.Context())
				if !ok {
					t.Fatalf("user not in context")
				}
				if u.ID != tt.user.ID {
					t.Fatalf("user id from context = %s, want %s", u.ID, tt.user.ID)
				}
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/protected", nil)

			g.Require(tt.role)(next).ServeHTTP(w, r)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Fatalf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}
