// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spacemonkeygo/monkit/v3"
)

type requestIDKey struct{}

// XRequestID is the header key for the request ID.
const XRequestID = "X-Request-Id"

// AddRequestID sets a unique request ID on the response headers and the
// request context of each request, keeping one already supplied by an
// upstream proxy.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(XRequestID)
		if requestID == "" {
			requestID = fmt.Sprintf("%x", monkit.NewId())
		}

		w.Header().Set(XRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID from the context, or empty when there
// is none.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}
