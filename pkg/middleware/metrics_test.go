// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &StatusRecorder{ResponseWriter: rec}

	recorder.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, recorder.Status)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestStatusRecorderImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &StatusRecorder{ResponseWriter: rec}

	_, err := recorder.Write([]byte("body"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Status)
}

func TestMetricsPassesThrough(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
