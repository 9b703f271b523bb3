// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

// testserver is a manual testbed wiring the limiter middleware stack into a
// small HTTP server, including a login flow demonstrating the
// check / record-failure / clear-on-success protocol.
package main

import (
	"context"
	"errors"
	"math"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/errdata"
	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/middleware"
	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/ratelimit"
	"github.com/pleme-io/pleme-middleware-rate-limit/pkg/trustedip"
)

// Config is the config for running the test server.
type Config struct {
	Address        string
	TrustedProxies []string
	DemoUser       string
	DemoPassword   string
	Limits         ratelimit.Config
}

var (
	// ConfigError is a class of errors relating to config validation.
	ConfigError = errs.Class("testserver configuration")

	rootCmd = &cobra.Command{
		Use:   "testserver",
		Short: "HTTP server exercising the rate limiting middleware",
		Args:  cobra.OnlyValidArgs,
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the test server",
		RunE:  cmdRun,
	}

	runCfg Config
)

func init() {
	defaults := ratelimit.DefaultConfig()

	flags := runCmd.Flags()
	flags.StringVar(&runCfg.Address, "address", "127.0.0.1:8080", "address to listen on")
	flags.StringSliceVar(&runCfg.TrustedProxies, "trusted-proxies", nil, "proxy IPs whose forwarding headers are honored")
	flags.StringVar(&runCfg.DemoUser, "demo-user", "demo", "account accepted by the login endpoint")
	flags.StringVar(&runCfg.DemoPassword, "demo-password", "", "password accepted by the login endpoint")
	flags.BoolVar(&runCfg.Limits.Enabled, "enabled", defaults.Enabled, "whether limits are enforced at all")
	flags.UintVar(&runCfg.Limits.MaxRequestsPerWindow, "max-requests", defaults.MaxRequestsPerWindow, "maximum requests admitted per key within the rate window")
	flags.DurationVar(&runCfg.Limits.RateWindow, "rate-window", defaults.RateWindow, "trailing window requests and login failures are counted over")
	flags.UintVar(&runCfg.Limits.MaxLoginAttempts, "max-login-attempts", defaults.MaxLoginAttempts, "failed login attempts within the rate window before lockout")
	flags.DurationVar(&runCfg.Limits.LockoutDuration, "lockout-duration", defaults.LockoutDuration, "how long a locked account stays locked")

	rootCmd.AddCommand(runCmd)
}

func cmdRun(cmd *cobra.Command, args []string) (err error) {
	if runCfg.Address == "" {
		return ConfigError.New("address must be set")
	}
	if runCfg.DemoPassword == "" {
		return ConfigError.New("demo-password must be set")
	}
	if runCfg.Limits.RateWindow <= 0 {
		return ConfigError.New("rate-window must be positive")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return errs.Wrap(err)
	}
	defer func() { _ = log.Sync() }()

	requests := ratelimit.NewRequestLimiter(runCfg.Limits)
	logins := ratelimit.NewLoginLimiter(runCfg.Limits)

	sweeper, err := ratelimit.NewSweeper(log, runCfg.Limits.RateWindow, requests, logins)
	if err != nil {
		return err
	}

	trusted := trustedip.NewListUntrustAll()
	if len(runCfg.TrustedProxies) > 0 {
		trusted = trustedip.NewListTrustIPs(runCfg.TrustedProxies...)
	}

	router := mux.NewRouter()
	router.Use(
		middleware.AddRequestID,
		middleware.NewLogRequests(log),
		middleware.Metrics,
		middleware.NewRateLimit(log, requests, trusted),
	)
	router.HandleFunc("/login", loginHandler(log, logins)).Methods(http.MethodPost)
	router.HandleFunc("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello\n"))
	}).Methods(http.MethodGet)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: runCfg.Address, Handler: router}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := sweeper.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		log.Info("starting test server", zap.String("address", runCfg.Address))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return group.Wait()
}

// loginHandler demonstrates the full login limiting protocol: gate the
// attempt first, then report the verified outcome back to the limiter. The
// limiter never infers the outcome itself.
func loginHandler(log *zap.Logger, logins *ratelimit.LoginLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := r.FormValue("identifier")
		if identifier == "" {
			http.Error(w, "identifier is required", http.StatusBadRequest)
			return
		}

		if err := logins.CheckLoginAttempt(identifier); err != nil {
			var locked *ratelimit.LockedError
			if errors.As(err, &locked) {
				log.Info("login attempt while locked", zap.String("identifier", identifier))
				writeLocked(w, err, locked.RemainingAt(time.Now()))
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if identifier != runCfg.DemoUser || r.FormValue("password") != runCfg.DemoPassword {
			logins.RecordFailedAttempt(identifier)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		logins.ClearAttempts(identifier)
		_, _ = w.Write([]byte("welcome\n"))
	}
}

func writeLocked(w http.ResponseWriter, err error, remaining time.Duration) {
	err = errdata.WithRetryAfter(errdata.WithStatus(err, http.StatusForbidden), remaining)
	if retry := errdata.GetRetryAfter(err, 0); retry > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
	}
	http.Error(w, err.Error(), errdata.GetStatus(err, http.StatusForbidden))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.S().Fatal(err)
	}
}
