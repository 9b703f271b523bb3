// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package trustedip

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		list    List
		request *http.Request
		want    string
	}{
		{
			name:    "no headers",
			list:    NewListTrustAll(),
			request: &http.Request{RemoteAddr: "192.0.2.10:51234"},
			want:    "192.0.2.10",
		},
		{
			name: "trusted peer honors Forwarded",
			list: NewListTrustAll(),
			request: &http.Request{
				RemoteAddr: "10.1.2.3:1234",
				Header: map[string][]string{
					"Forwarded":       {"for=203.0.113.7;proto=https, for=10.1.2.3"},
					"X-Forwarded-For": {"198.51.100.1"},
				},
			},
			want: "203.0.113.7",
		},
		{
			name: "trusted peer falls back to X-Forwarded-For",
			list: NewListTrustIPs("10.1.2.3"),
			request: &http.Request{
				RemoteAddr: "10.1.2.3:1234",
				Header: map[string][]string{
					"X-Forwarded-For": {"203.0.113.7, 10.1.2.3"},
				},
			},
			want: "203.0.113.7",
		},
		{
			name: "trusted peer falls back to X-Real-Ip",
			list: NewListTrustIPs("10.1.2.3"),
			request: &http.Request{
				RemoteAddr: "10.1.2.3:1234",
				Header: map[string][]string{
					"X-Real-Ip": {"203.0.113.7"},
				},
			},
			want: "203.0.113.7",
		},
		{
			name: "untrusted peer ignores headers",
			list: NewListUntrustAll(),
			request: &http.Request{
				RemoteAddr: "192.0.2.10:51234",
				Header: map[string][]string{
					"X-Forwarded-For": {"203.0.113.7"},
				},
			},
			want: "192.0.2.10",
		},
		{
			name: "peer not on the list ignores headers",
			list: NewListTrustIPs("10.0.0.1"),
			request: &http.Request{
				RemoteAddr: "192.0.2.10:51234",
				Header: map[string][]string{
					"X-Real-Ip": {"203.0.113.7"},
				},
			},
			want: "192.0.2.10",
		},
		{
			name:    "remote addr without port",
			list:    NewListUntrustAll(),
			request: &http.Request{RemoteAddr: "192.0.2.10"},
			want:    "192.0.2.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetClientIP(tt.list, tt.request))
		})
	}
}

func TestStripPort(t *testing.T) {
	assert.Equal(t, "192.0.2.1", stripPort("192.0.2.1:8080"))
	assert.Equal(t, "192.0.2.1", stripPort("192.0.2.1"))
	assert.Equal(t, "2001:db8::1", stripPort("[2001:db8::1]:8080"))
}
