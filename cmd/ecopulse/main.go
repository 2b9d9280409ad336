// Command ecopulse is a terminal client for the EcoPulse carbon footprint
// tracker. It also runs an MCP tool server for AI assistants and a local
// mock backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TechyShie/ecopulse/internal/config"
	"github.com/TechyShie/ecopulse/internal/logger"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `usage: ecopulse <command> [flags]

Account:
  login        log in with email and password
  signup       create an account
  logout       forget the saved session
  whoami       show the logged-in user

Data:
  dashboard    totals and recent activity
  logs         list | add | update | delete | sync
  insights     weekly trend, categories and summary
  leaderboard  community ranking
  profile      show or edit the profile
  chat         talk to the EcoPulse assistant

Servers:
  mcp          MCP tool server over stdio, or HTTP with -http
  mock-server  local in-memory backend

Configuration comes from .env, ECOPULSE_CONFIG_PATH and ECOPULSE_* variables.
`

// errUsage marks a bad command line. The message has already been printed.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if args[0] == "version" {
		fmt.Fprintln(stdout, version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Env, cfg.Log.Level)
	if cfg.Log.Path != "" {
		fileLog, w, err := logger.NewFile(cfg.Env, cfg.Log.Level, cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(stderr, "log file error: %v\n", err)
		} else {
			defer w.Close()
			log = fileLog
		}
	}
	defer func() { _ = log.Sync() }()

	cmd, rest := args[0], args[1:]
	if cmd == "mock-server" {
		return exitCode(stderr, runMockServer(ctx, cfg, log, rest, stdout))
	}

	a, err := newApp(cfg, log, stdin, stdout, stderr)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	var runErr error
	switch cmd {
	case "login":
		runErr = a.login(ctx, rest)
	case "signup":
		runErr = a.signup(ctx, rest)
	case "logout":
		runErr = a.logout(ctx)
	case "whoami":
		runErr = a.whoami(ctx)
	case "dashboard":
		runErr = a.dashboard(ctx, rest)
	case "logs":
		runErr = a.logs(ctx, rest)
	case "insights":
		runErr = a.insights(ctx)
	case "leaderboard":
		runErr = a.leaderboard(ctx, rest)
	case "profile":
		runErr = a.profile(ctx, rest)
	case "chat":
		runErr = a.chat(ctx, rest)
	case "mcp":
		runErr = a.serveMCP(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	return exitCode(stderr, runErr)
}

func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		errColor.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
}
