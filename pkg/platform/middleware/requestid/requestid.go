package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"sovereign/pkg/requestcontext"
)

// Header carries a caller-supplied correlation id.
const Header = "X-Request-ID"

// Middleware propagates X-Request-ID, generating one when absent, and echoes it
// on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
