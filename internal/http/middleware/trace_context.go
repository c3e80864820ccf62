package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/slateroom/slateroom-backend/internal/pkg/ctxutil"
)

const (
	traceIDHeader   = "X-Trace-Id"
	requestIDHeader = "X-Request-Id"
)

// AttachTraceContext resolves the correlation identifiers for a request and
// exposes them to handlers, the request logger and the response headers. An
// inbound header wins; otherwise the active span supplies the trace id and
// anything still missing is minted fresh.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := &ctxutil.TraceData{
			TraceID:   resolveTraceID(c),
			RequestID: resolveRequestID(c),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)
		c.Writer.Header().Set(traceIDHeader, td.TraceID)
		c.Writer.Header().Set(requestIDHeader, td.RequestID)
		c.Next()
	}
}

func resolveTraceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(traceIDHeader)); id != "" {
		return id
	}
	if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return uuid.New().String()
}

func resolveRequestID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(requestIDHeader)); id != "" {
		return id
	}
	return uuid.New().String()
}
