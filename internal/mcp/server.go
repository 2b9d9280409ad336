// Package mcp exposes EcoPulse to AI assistants as MCP tools.
package mcp

import (
	"context"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/chat"
	"github.com/TechyShie/ecopulse/internal/domain/stats"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// DashboardService defines dashboard reads needed by MCP.
type DashboardService interface {
	Stats(ctx context.Context) (api.Result[stats.Dashboard], error)
}

// LogService defines activity log operations needed by MCP.
type LogService interface {
	ListWithPending(ctx context.Context, page api.Page) (api.Result[[]activity.Log], error)
	CreateOrQueue(ctx context.Context, in activity.Input) (*activity.Log, error)
}

// LeaderboardService defines leaderboard reads needed by MCP.
type LeaderboardService interface {
	Get(ctx context.Context, page api.Page) (api.Result[[]stats.LeaderboardEntry], error)
}

// AssistantService defines AI chat operations needed by MCP.
type AssistantService interface {
	Ask(ctx context.Context, conv *chat.Conversation, prompt string) (chat.Turn, error)
}

// AuthChecker reports whether a user is logged in.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Services contains everything the tools call.
type Services struct {
	Dashboard   DashboardService
	Logs        LogService
	Leaderboard LeaderboardService
	Assistant   AssistantService
}

// ServicesFrom adapts an API client.
func ServicesFrom(c *api.Client) Services {
	return Services{
		Dashboard:   c.Dashboard,
		Logs:        c.Logs,
		Leaderboard: c.Leaderboard,
		Assistant:   c.AI,
	}
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Auth, when set, rejects tool calls until the user has logged in.
	Auth    AuthChecker
	Logger  *zap.Logger
	Version string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "ecopulse",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})

	registerDocResources(server)

	if cfg.Auth != nil {
		server.AddReceivingMiddleware(requireLogin(cfg.Auth))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
