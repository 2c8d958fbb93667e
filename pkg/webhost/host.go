package webhost

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/webhost/pkg/errors"
)

// Host is a finished server. It serves at most once.
type Host struct {
	name     string
	handler  http.Handler
	logger   *zerolog.Logger
	timeout  time.Duration
	stopBase context.CancelFunc

	started atomic.Bool

	// stderr receives listener failures.
	stderr io.Writer
}

// Name returns the service name.
func (h *Host) Name() string {
	return h.name
}

// Handler returns the fully layered handler.
func (h *Host) Handler() http.Handler {
	return h.handler
}

// Start binds ListenAddress and serves until ctx is done, then drains open
// connections. A bind or serve failure is printed to stderr and returned;
// the process keeps running.
func (h *Host) Start(ctx context.Context) error {
	if !h.started.CompareAndSwap(false, true) {
		return errors.ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", ListenAddress)
	if err != nil {
		h.stopBase()
		err = fmt.Errorf("listen on %s: %w", ListenAddress, err)
		h.report(err)
		return err
	}
	return h.serve(ctx, ln)
}

// Serve is Start on a listener the caller opened. The listener is closed
// when Serve returns.
func (h *Host) Serve(ctx context.Context, ln net.Listener) error {
	if !h.started.CompareAndSwap(false, true) {
		return errors.ErrAlreadyStarted
	}
	return h.serve(ctx, ln)
}

func (h *Host) serve(ctx context.Context, ln net.Listener) error {
	defer h.stopBase()

	srv := &http.Server{
		Handler:           h.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// Requests outlive the start context so they can finish while
		// draining.
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	h.logger.Info().
		Str("service", h.name).
		Str("address", ln.Addr().String()).
		Msg("Server listening")

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		err = fmt.Errorf("serve: %w", err)
		h.report(err)
		return err

	case <-ctx.Done():
		h.logger.Info().Str("service", h.name).Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Error().Err(err).Msg("Server shutdown did not complete")
			return fmt.Errorf("shutdown: %w", err)
		}

		h.logger.Info().Str("service", h.name).Msg("Server stopped")
		return nil
	}
}

func (h *Host) report(err error) {
	w := h.stderr
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "server error: %v\n", err)
	h.logger.Error().Err(err).Str("service", h.name).Msg("Server failed")
}
