// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err on logger at error level. Oops errors contribute their
// code, context map, and user hint as structured attributes; plain errors
// log as a bare error string. A nil logger falls back to slog.Default.
func LogError(logger *slog.Logger, msg string, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{
		"error", oopsErr.Error(),
	}
	if code := oopsErr.Code(); code != nil && code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	if hint := oopsErr.Hint(); hint != "" {
		attrs = append(attrs, "hint", hint)
	}
	logger.Error(msg, attrs...)
}
