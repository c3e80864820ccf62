package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKeyType struct{}
type traceDataKeyType struct{}

var (
	requestDataKey requestDataKeyType
	traceDataKey   traceDataKeyType
)

// RequestData carries the authenticated caller through the request context.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

// TraceData carries correlation identifiers for logging.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey).(*TraceData); ok {
		return td
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
