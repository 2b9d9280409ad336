package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrNotLoggedIn is returned for tool calls made before login.
var ErrNotLoggedIn = errors.New("not logged in: run `ecopulse login` first")

// requireLogin rejects tool calls while the session is anonymous. Protocol
// methods and resource reads stay available.
func requireLogin(auth AuthChecker) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "tools/call" && !auth.IsAuthenticated(ctx) {
				return nil, ErrNotLoggedIn
			}
			return next(ctx, method, req)
		}
	}
}
