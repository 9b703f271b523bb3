// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

// Package errdata annotates errors with response data so that rejection
// mapping doesn't require every layer to inspect concrete error types.
package errdata

import (
	"errors"
	"time"
)

type errWrap struct {
	error
	key, val interface{}
}

func (e errWrap) Unwrap() error { return e.error }

func (e errWrap) value(key interface{}) interface{} {
	if e.key == key {
		return e.val
	}
	return Value(e.error, key)
}

// Value returns the most recent annotation by key on this error, or nil.
func Value(err error, key interface{}) interface{} {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if w, ok := e.(errWrap); ok { //nolint: errorlint // custom unwrap loop.
			return w.value(key)
		}
	}
	return nil
}

// Annotate returns a new error annotated with the provided key and value.
// If err is nil, does nothing.
func Annotate(err error, key, val interface{}) error {
	if err == nil {
		return nil
	}
	return errWrap{error: err, key: key, val: val}
}

type errSym int

const (
	errStatusCode errSym = 1
	errRetryAfter errSym = 2
)

// WithStatus annotates an error with an HTTP status. If err is nil, does
// nothing.
func WithStatus(err error, statusCode int) error {
	return Annotate(err, errStatusCode, statusCode)
}

// GetStatus returns the most recent status code annotation on the error.
// If none is found, defValue is returned instead.
func GetStatus(err error, defValue int) int {
	if v, ok := Value(err, errStatusCode).(int); ok {
		return v
	}
	return defValue
}

// WithRetryAfter annotates an error with how long the caller should wait
// before retrying. If err is nil, does nothing.
func WithRetryAfter(err error, d time.Duration) error {
	return Annotate(err, errRetryAfter, d)
}

// GetRetryAfter returns the most recent retry-after annotation on the error.
// If none is found, defValue is returned instead.
func GetRetryAfter(err error, defValue time.Duration) time.Duration {
	if v, ok := Value(err, errRetryAfter).(time.Duration); ok {
		return v
	}
	return defValue
}
