// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

// Package middleware provides HTTP middleware wiring the limiters into a
// request pipeline: rate limiting, request logging and response metrics.
package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"

	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/errdata"
	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/ratelimit"
	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/trustedip"
)

var mon = monkit.Package()

// RateLimit gates every request through limiter before next runs. The
// limiting key is the client IP and the request path joined with ':', so the
// budget applies per caller per route.
//
// An exceeded budget is answered with 429 and a Retry-After of the configured
// window. Any other error from the check would not be a limiter verdict, so
// the request passes through instead of being blocked (fail open); today the
// limiter defines no such error.
func RateLimit(log *zap.Logger, limiter *ratelimit.RequestLimiter, trusted trustedip.List, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		ctx := r.Context()
		defer mon.TaskNamed("RateLimit")(&ctx)(&err)

		key := trustedip.GetClientIP(trusted, r) + ":" + r.URL.Path

		if err = limiter.CheckRateLimit(key); err != nil {
			var exceeded *ratelimit.ExceededError
			if errors.As(err, &exceeded) {
				log.Warn("rate limit exceeded",
					zap.String("key", key),
					zap.Uint("limit", exceeded.Limit),
					zap.Duration("window", exceeded.Window))
				writeRejection(w, errdata.WithRetryAfter(
					errdata.WithStatus(err, http.StatusTooManyRequests), exceeded.Window))
				return
			}
			log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		}

		next.ServeHTTP(w, r)
	})
}

// NewRateLimit is a convenience wrapper around RateLimit that returns it as
// mux.MiddlewareFunc.
func NewRateLimit(log *zap.Logger, limiter *ratelimit.RequestLimiter, trusted trustedip.List) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return RateLimit(log, limiter, trusted, next)
	}
}

// writeRejection answers with the status and Retry-After annotated on err.
func writeRejection(w http.ResponseWriter, err error) {
	if retry := errdata.GetRetryAfter(err, 0); retry > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
	}
	http.Error(w, err.Error(), errdata.GetStatus(err, http.StatusTooManyRequests))
}
