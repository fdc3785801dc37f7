package middleware

import (
	"context"
	"net/http"

	"github.com/mmeshcher/trademaster/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// CurrentUserFunc возвращает пользователя текущей сессии или nil.
type CurrentUserFunc func() *model.User

// RoleGuard пропускает запрос только если у пользователя сессии нужная роль.
// Это не механизм безопасности: вход выполняется только по email.
type RoleGuard struct {
	currentUser CurrentUserFunc
}

// NewRoleGuard создаёт RoleGuard поверх источника текущего пользователя.
func NewRoleGuard(currentUser CurrentUserFunc) *RoleGuard {
	return &RoleGuard{currentUser: currentUser}
}

// Require возвращает middleware, требующее роль role. Без пользователя отвечает 401, с другой ролью 403.
func (g *RoleGuard) Require(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := g.currentUser()
			if u == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if u.Role != role {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext извлекает пользователя, проверенного RoleGuard, из контекста запроса.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}
