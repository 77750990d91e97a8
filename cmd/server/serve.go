package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const shutdownTimeout = 10 * time.Second

// serve runs the scanner and the HTTP server until ctx is done, then drains
// in-flight requests for up to shutdownTimeout. It returns only after the
// scanner has stopped and Shutdown has returned.
func serve(ctx context.Context, server *http.Server, ln net.Listener, scan func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := scan(ctx); err != nil {
			slog.Error("goal scanner failed", "error", err)
		}
	}()

	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	} else {
		cancel()
	}

	wg.Wait()
	return err
}
