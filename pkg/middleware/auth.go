package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// Auth validates the Bearer token and stores the resolved claims in the
// request context. Controllers read the acting cashier via auth.UserFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.Replace(r.Header.Get("Authorization"), "Bearer ", "", 1)

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := auth.CtxWithUser(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
