package middleware

import (
	"net"
	"net/http"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// Trace tags the request with a trace id (client supplied or generated) and
// the caller's address, and seeds the request-scoped logger with both. It
// expects chi's RealIP to have run first.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ip := ClientIP(r)

		ctx := apperrors.ContextWithTraceID(r.Context(), traceID)
		ctx = apperrors.ContextWithClientIP(ctx, ip)
		ctx = logger.With(ctx, "trace_id", traceID, "client_ip", ip)

		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
