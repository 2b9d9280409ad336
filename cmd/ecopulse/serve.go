package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TechyShie/ecopulse/internal/config"
	"github.com/TechyShie/ecopulse/internal/mcp"
	"github.com/TechyShie/ecopulse/internal/mockapi"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (a *app) serveMCP(ctx context.Context, args []string) error {
	fs := a.flags("mcp")
	addr := fs.String("http", "", "serve streamable HTTP on this address instead of stdio")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	server := mcp.NewServer(mcp.Config{
		Services: mcp.ServicesFrom(a.client),
		Auth:     a.session,
		Logger:   a.logger,
		Version:  version,
	})

	if *addr == "" {
		return runStdioMode(ctx, a.logger, server)
	}
	return runHTTPMode(ctx, a.logger, server, *addr)
}

func runStdioMode(ctx context.Context, logger *zap.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", zap.Error(err))
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *zap.Logger, server *sdkmcp.Server, addr string) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return serveHTTP(ctx, logger, &http.Server{Addr: addr, Handler: router})
}

func runMockServer(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string, stdout io.Writer) error {
	fs := newFlagSet("mock-server", stdout)
	addr := fs.String("addr", cfg.Mock.Addr, "listen address")
	seed := fs.Bool("seed", true, "create demo accounts")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	store := mockapi.NewStore(time.Now)
	if *seed {
		if err := store.Seed(0); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Demo accounts: demo@ecopulse.app, grace@ecopulse.app, alan@ecopulse.app (password %q)\n", mockapi.DemoPassword)
	}

	backend := mockapi.New(store, mockapi.Options{
		Secret:         cfg.Mock.JWTSecret,
		AllowedOrigins: cfg.Mock.AllowedOrigins,
		Logger:         logger,
	})
	fmt.Fprintf(stdout, "Mock EcoPulse API on http://%s\n", *addr)
	return serveHTTP(ctx, logger, &http.Server{Addr: *addr, Handler: backend.Handler()})
}

// serveHTTP runs server until ctx is canceled, then shuts it down.
func serveHTTP(ctx context.Context, logger *zap.Logger, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}
	return waitForShutdown(logger, server)
}

func waitForShutdown(logger *zap.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
