// Package api groups REST calls by backend resource. Accessors build paths
// and payloads; the restclient does the transport and error translation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/repository"
	"github.com/TechyShie/ecopulse/internal/restclient"
	"github.com/TechyShie/ecopulse/internal/session"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Requester sends one API request. *restclient.Client implements it.
type Requester interface {
	Do(ctx context.Context, req restclient.Request, out any) error
}

// Deps are the collaborators of a Client. Cache and Pending are optional;
// without them reads fall back straight to static data and failed creates
// are not queued.
type Deps struct {
	Requester Requester
	Session   *session.Store
	Cache     repository.ResponseCache
	Pending   repository.PendingLogRepository
	Logger    *zap.Logger
	Now       func() time.Time
}

// Client exposes one accessor per backend resource.
type Client struct {
	Auth        *AuthAPI
	Dashboard   *DashboardAPI
	Logs        *LogsAPI
	Insights    *InsightsAPI
	Leaderboard *LeaderboardAPI
	Profile     *ProfileAPI
	AI          *AIAPI
}

type core struct {
	rest     Requester
	session  *session.Store
	cache    repository.ResponseCache
	pending  repository.PendingLogRepository
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New wires the accessors.
func New(deps Deps) (*Client, error) {
	if deps.Requester == nil {
		return nil, errors.New("api: requester is required")
	}
	if deps.Session == nil {
		return nil, errors.New("api: session store is required")
	}
	c := &core{
		rest:     deps.Requester,
		session:  deps.Session,
		cache:    deps.Cache,
		pending:  deps.Pending,
		logger:   deps.Logger,
		validate: NewValidator(),
		now:      deps.Now,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}

	return &Client{
		Auth:        &AuthAPI{c: c},
		Dashboard:   &DashboardAPI{c: c},
		Logs:        &LogsAPI{c: c},
		Insights:    &InsightsAPI{c: c},
		Leaderboard: &LeaderboardAPI{c: c},
		Profile:     &ProfileAPI{c: c},
		AI:          &AIAPI{c: c},
	}, nil
}

// NewValidator returns a validator that reports JSON field names and
// understands activity.Date.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(activity.Date); ok {
			return d.String()
		}
		return nil
	}, activity.Date{})
	return v
}

func (c *core) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return apierror.FromValidation(err)
	}
	return nil
}

func (c *core) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.rest.Do(ctx, restclient.Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *core) send(ctx context.Context, method, path string, body, out any) error {
	return c.rest.Do(ctx, restclient.Request{Method: method, Path: path, Body: body}, out)
}

// Page selects a slice of a server-side list. Zero values are omitted so the
// server defaults apply.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) query() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

func (p Page) cacheKey(prefix string) string {
	return fmt.Sprintf("%s?skip=%d&limit=%d", prefix, p.Skip, p.Limit)
}

func (c *core) remember(ctx context.Context, owner, key string, v any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("encoding cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Put(ctx, owner, key, data); err != nil {
		c.logger.Warn("writing cache entry", zap.String("key", key), zap.Error(err))
	}
}
