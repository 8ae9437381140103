package middleware

import (
	"net/http"

	reqcontext "github.com/prajwalbharadwajbm/crmbeacon/internal/context"
)

// RequestIDMiddleware adds request IDs to incoming requests
type RequestIDMiddleware struct{}

// NewRequestIDMiddleware creates a new request ID middleware
func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{}
}

// Middleware stores the request info in the context and echoes the id in
// the X-Request-ID response header.
func (m *RequestIDMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := reqcontext.NewRequestInfo(r)
		w.Header().Set(reqcontext.HeaderRequestID, info.ID)

		next.ServeHTTP(w, r.WithContext(reqcontext.WithRequestInfo(r.Context(), info)))
	})
}
