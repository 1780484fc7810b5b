// Package grace runs a long-lived process until it is interrupted, then gives
// it a bounded amount of time to shut down.
package grace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const DefaultShutdownTimeout = 10 * time.Second

type OrchestrateOptions struct {
	// Blocks while the process runs. Returning early ends the process.
	StartupCallback func() error
	// Called once with a context bounded by ShutdownTimeout.
	ShutdownCallback func(shutdownCtx context.Context) error
	ShutdownTimeout  time.Duration // Defaults to DefaultShutdownTimeout.
	// Defaults to SIGINT and SIGTERM.
	Signals []os.Signal
	Logger  *slog.Logger
}

// Orchestrate starts the process and waits for a signal, cancellation of ctx
// or the startup callback returning, whichever comes first. The shutdown
// callback always runs. Startup and shutdown errors are joined.
func Orchestrate(ctx context.Context, o OrchestrateOptions) error {
	if o.StartupCallback == nil {
		return errors.New("grace: StartupCallback is required")
	}
	timeout := o.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	sigs := o.Signals
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, sigs...)
	defer stop()

	startErr := make(chan error, 1)
	go func() { startErr <- o.StartupCallback() }()

	var errStartup error
	select {
	case <-ctx.Done():
		log.Info("Shutdown requested", "cause", context.Cause(ctx))
	case errStartup = <-startErr:
		if errStartup != nil {
			errStartup = fmt.Errorf("startup: %w", errStartup)
		}
	}

	if o.ShutdownCallback == nil {
		return errStartup
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := o.ShutdownCallback(shutdownCtx); err != nil {
		return errors.Join(errStartup, fmt.Errorf("shutdown: %w", err))
	}
	return errStartup
}
