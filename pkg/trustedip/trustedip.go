// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

// Package trustedip derives the client IP of an HTTP request, honoring
// forwarding headers only when they were set by a trusted proxy.
package trustedip

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

// List is a set of trusted proxy IPs. Forwarding headers are only honored
// when the directly connected peer is on the list. The zero value trusts
// nobody.
type List struct {
	ips      map[string]struct{}
	trustAll bool
}

// NewListTrustAll creates a List that trusts any peer. Only use it when every
// path to the service goes through a proxy under your control.
func NewListTrustAll() List {
	return List{trustAll: true}
}

// NewListUntrustAll creates a List that trusts no peer, so the connection
// address always wins.
func NewListUntrustAll() List {
	return List{}
}

// NewListTrustIPs creates a List that trusts exactly the passed IPs. The
// values are not validated; they are matched literally against the peer
// address with the port stripped.
func NewListTrustIPs(ips ...string) List {
	l := List{ips: make(map[string]struct{}, len(ips))}
	for _, ip := range ips {
		l.ips[ip] = struct{}{}
	}
	return l
}

// IsTrusted returns whether ip is a trusted proxy.
func (l List) IsTrusted(ip string) bool {
	if l.trustAll {
		return true
	}
	_, ok := l.ips[ip]
	return ok
}

// forwardedFor matches the first 'for' pair of a Forwarded header
// (RFC 7239), e.g. `for=192.0.2.60;proto=http`.
var forwardedFor = regexp.MustCompile(`for=([^,;" ]+)`)

// GetClientIP returns the IP of the client that issued r.
//
// When the directly connected peer is trusted, the Forwarded,
// X-Forwarded-For and X-Real-Ip headers are consulted in that order and the
// first client value found wins. Otherwise, and when no header is set, the
// connection address is returned with the port stripped. Header values are
// not validated to be well-formed IPs; they only serve as limiter keys.
func GetClientIP(l List, r *http.Request) string {
	peer := stripPort(r.RemoteAddr)
	if !l.IsTrusted(peer) {
		return peer
	}

	if h := r.Header.Get("Forwarded"); h != "" {
		if m := forwardedFor.FindStringSubmatch(h); m != nil {
			return m[1]
		}
	}
	if h := r.Header.Get("X-Forwarded-For"); h != "" {
		// The first entry is the client, the rest are proxies on the path.
		return strings.TrimSpace(strings.SplitN(h, ",", 2)[0])
	}
	if h := r.Header.Get("X-Real-Ip"); h != "" {
		return h
	}

	return peer
}

func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
