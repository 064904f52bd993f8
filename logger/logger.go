// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a structured logger constructor shared by all
// platform services.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to w at the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return nil, err
	}

	logHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(logHandler), nil
}

// ExitWithError terminates the process with the given exit code. It is meant
// to be deferred right after logger creation so that deferred cleanups run
// before the process exits.
func ExitWithError(exitCode *int) {
	os.Exit(*exitCode)
}
