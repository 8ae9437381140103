package context

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderRequestID carries a caller supplied request id, and is echoed back
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLength caps ids accepted from upstream
const maxRequestIDLength = 128

type requestInfoKey struct{}

// RequestInfo holds information about the current request
type RequestInfo struct {
	ID         string    `json:"request_id"`
	Method     string    `json:"method"`
	Route      string    `json:"route"`
	StartTime  time.Time `json:"start_time"`
	UserAgent  string    `json:"user_agent,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// NewRequestInfo describes r. The upstream X-Request-ID is reused when it
// looks sane, otherwise a fresh id is generated.
func NewRequestInfo(r *http.Request) RequestInfo {
	id := r.Header.Get(HeaderRequestID)
	if id == "" || len(id) > maxRequestIDLength {
		id = uuid.NewString()
	}

	return RequestInfo{
		ID:         id,
		Method:     r.Method,
		Route:      r.URL.Path,
		StartTime:  time.Now(),
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
	}
}

// WithRequestInfo stores info in ctx
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// GetRequestInfo returns the info stored by WithRequestInfo
func GetRequestInfo(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// GetRequestID returns the request id, or "" outside a request
func GetRequestID(ctx context.Context) string {
	info, _ := GetRequestInfo(ctx)
	return info.ID
}

// Elapsed returns the time since the request started, or 0 outside a request
func Elapsed(ctx context.Context) time.Duration {
	info, ok := GetRequestInfo(ctx)
	if !ok || info.StartTime.IsZero() {
		return 0
	}
	return time.Since(info.StartTime)
}

// Keyvals returns the request fields as go-kit log key/value pairs. Empty
// fields are left out.
func Keyvals(ctx context.Context) []any {
	info, ok := GetRequestInfo(ctx)
	if !ok {
		return nil
	}

	keyvals := []any{"request_id", info.ID}
	if info.UserAgent != "" {
		keyvals = append(keyvals, "user_agent", info.UserAgent)
	}
	if info.RemoteAddr != "" {
		keyvals = append(keyvals, "remote_addr", info.RemoteAddr)
	}
	return keyvals
}
