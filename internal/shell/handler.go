// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"io"
)

type (
	// HandlerContext provides the execution context for commands.
	HandlerContext struct {
		// Stdout receives the command output. It may be a redirection buffer.
		Stdout io.Writer
		// Stderr receives error messages and is never redirected.
		Stderr io.Writer
		// FS is the session's virtual filesystem.
		FS FileSystem
		// Core is the shell running the command.
		Core Core
	}

	// handlerContextKey is the context key for storing HandlerContext.
	handlerContextKey struct{}
)

// WithHandlerContext stores a HandlerContext in the context.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext retrieves the HandlerContext from the context.
// Commands run outside a shell get one that discards all output and has no
// filesystem.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return &HandlerContext{Stdout: io.Discard, Stderr: io.Discard}
}
