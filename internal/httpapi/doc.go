// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package httpapi is the HTTP boundary of SkyCast. It exposes the
// registration, login, and weather operations over a Fiber application,
// translating service envelopes into HTTP responses.
//
// The boundary owns the concerns the services deliberately do not:
// bearer-token verification, per-IP rate limiting, request metrics, and
// conversion of unexpected faults into a generic 500 envelope.
package httpapi
