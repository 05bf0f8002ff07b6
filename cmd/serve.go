// ABOUTME: Serve command running the MCP server over stdio or streamable HTTP
// ABOUTME: HTTP mode adds health, CORS, bearer auth and rate limiting

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/strava-mcp/config"
	"github.com/markalston/strava-mcp/handlers"
	"github.com/markalston/strava-mcp/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var (
	transportFlag string
	portFlag      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server. The stdio transport (default) is what desktop MCP hosts
expect; the http transport serves streamable MCP on /mcp and a health
endpoint on /api/v1/health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if transportFlag != "" {
			cfg.Transport = transportFlag
		}
		if portFlag != "" {
			cfg.Port = portFlag
		}

		h := newHandler(cfg)
		slog.Info("Starting strava-mcp", "version", Version, "transport", cfg.Transport)

		switch cfg.Transport {
		case config.TransportStdio:
			return h.NewServer().Run(ctx, &mcp.StdioTransport{})
		case config.TransportHTTP:
			return serveHTTP(ctx, cfg, h)
		default:
			return fmt.Errorf("unknown transport %q", cfg.Transport)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&transportFlag, "transport", "", "stdio or http (overrides MCP_TRANSPORT)")
	serveCmd.Flags().StringVar(&portFlag, "port", "", "HTTP listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}

// serveHTTP runs the HTTP transport until ctx is cancelled.
func serveHTTP(ctx context.Context, cfg *config.Config, h *handlers.Handler) error {
	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled", "requests_per_minute", cfg.RateLimitDefault)
	}
	if cfg.AuthToken == "" {
		slog.Warn("MCP_AUTH_TOKEN not set, /mcp accepts unauthenticated requests")
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: h.HTTPHandler(handlers.HTTPOptions{
			AuthToken:          cfg.AuthToken,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimiter:        limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
