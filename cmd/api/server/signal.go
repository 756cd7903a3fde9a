package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals stop the service gracefully.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignal returns a context canceled on SIGINT or SIGTERM. The returned stop
// releases the signal handler and cancels the context.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, shutdownSignals...)
}
