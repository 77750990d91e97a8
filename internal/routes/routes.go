package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/templui/accountabot/internal/app"
	"github.com/templui/accountabot/internal/handler"
	"github.com/templui/accountabot/internal/middleware"
)

// SetupRoutes builds the HTTP surface. The rate limiter's cleanup runs until
// ctx is done.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	commands := handler.NewCommandHandler(app.Bot)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", handler.Healthz)

	// Metrics
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", app.Metrics.Handler())
	}

	// Commands (rate limited per client)
	limiter := middleware.NewRateLimiter(app.Cfg.RateLimit, time.Minute)
	go limiter.Run(ctx)
	mux.Handle("POST /commands/{name}", limiter.Limit(http.HandlerFunc(commands.Handle)))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
	)
}
