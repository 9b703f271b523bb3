// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogRequests logs every handled request with its response status and
// duration. Successful responses log at debug, limiter rejections and other
// client errors at info, server errors at error.
func LogRequests(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &StatusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		if recorder.Status == 0 {
			recorder.Status = http.StatusOK
		}

		level := log.Debug
		if recorder.Status >= 500 {
			level = log.Error
		} else if recorder.Status >= 300 {
			level = log.Info
		}

		fields := []zapcore.Field{
			zap.String("method", r.Method),
			zap.String("host", r.Host),
			zap.String("path", r.URL.Path),
			zap.Int("code", recorder.Status),
			zap.String("user-agent", r.UserAgent()),
			zap.String("remote-addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		}
		if requestID := GetRequestID(r.Context()); requestID != "" {
			fields = append(fields, zap.String("request-id", requestID))
		}

		level("response", fields...)
	})
}

// NewLogRequests is a convenience wrapper around LogRequests that returns it
// as mux.MiddlewareFunc.
func NewLogRequests(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return LogRequests(log, next)
	}
}
