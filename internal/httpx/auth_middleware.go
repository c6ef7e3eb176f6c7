package httpx

import (
	"net/http"
)

// Guard lets a request through only when allow reports true. Otherwise it
// answers with the given status and a user-facing message.
func Guard(allow func() bool, status int, code, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow() {
				JSONError(w, r, status, code, message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
