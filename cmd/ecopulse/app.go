package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/config"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/TechyShie/ecopulse/internal/sqlite"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
)

// app holds what every client command needs: the persisted session, the
// response cache, the pending-log queue and the API client over them.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	db      *sqlite.DB
	session *session.Store
	client  *api.Client

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(cfg config.Config, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := session.NewStore(sqlite.NewKVStore(db), logger)
	rest, err := restclient.New(restclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Session: store,
		Navigator: restclient.NavigatorFunc(func(context.Context) {
			warnColor.Fprintln(stderr, "You have been logged out. Run `ecopulse login` to sign in again.")
		}),
		Logger: logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	client, err := api.New(api.Deps{
		Requester: rest,
		Session:   store,
		Cache:     sqlite.NewResponseCache(db),
		Pending:   sqlite.NewPendingLogRepository(db),
		Logger:    logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		session: store,
		client:  client,
		in:      bufio.NewReader(stdin),
		out:     stdout,
		errOut:  stderr,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) flags(name string) *flag.FlagSet {
	return newFlagSet(name, a.errOut)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// prompt asks for a value on stdin. EOF yields an empty answer.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// requireLogin stops a command early when nobody is logged in.
func (a *app) requireLogin(ctx context.Context) error {
	if a.session.IsAuthenticated(ctx) {
		return nil
	}
	return errors.New("not logged in: run `ecopulse login` first")
}

// note prints a banner when a read was served from the cache or sample data.
func (a *app) note(src api.Source, err error) {
	switch src {
	case api.SourceCache:
		warnColor.Fprintf(a.out, "(offline: showing saved data. %s)\n", describe(err))
	case api.SourceFallback:
		warnColor.Fprintf(a.out, "(offline: showing sample data. %s)\n", describe(err))
	}
}

// describe renders an error for the terminal without leaking internals.
func describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *apierror.Error
	var urlErr *url.Error
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Error()
		if apiErr.Kind == apierror.KindValidation && len(apiErr.Fields) > 0 {
			msg = "invalid input: " + msg
		}
		return msg
	case errors.As(err, &urlErr), apierror.KindOf(err) == apierror.KindCanceled:
		return apierror.UserMessage(err)
	default:
		return err.Error()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
