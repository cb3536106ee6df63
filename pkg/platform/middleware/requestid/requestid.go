package requestid

import (
	"net/http"

	"certseal/pkg/requestcontext"

	"github.com/google/uuid"
)

// Header carries the request correlation ID on both requests and responses.
const Header = "X-Request-ID"

// Middleware assigns each request a correlation ID, honoring one supplied by
// an upstream proxy. The ID flows into audit events and log lines.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
