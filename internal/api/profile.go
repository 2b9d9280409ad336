package api

import (
	"context"
	"net/http"

	"github.com/TechyShie/ecopulse/internal/domain/account"
	"go.uber.org/zap"
)

// ProfileAPI covers /api/profile.
type ProfileAPI struct {
	c *core
}

// Get returns the profile and refreshes the session user from it.
func (p *ProfileAPI) Get(ctx context.Context) (*account.Profile, error) {
	var out account.Profile
	if err := p.c.get(ctx, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	p.syncUser(ctx, out)
	return &out, nil
}

// Update applies the non-nil fields of upd.
func (p *ProfileAPI) Update(ctx context.Context, upd account.ProfileUpdate) (*account.Profile, error) {
	if err := p.c.check(upd); err != nil {
		return nil, err
	}
	var out account.Profile
	if err := p.c.send(ctx, http.MethodPut, "/api/profile", upd, &out); err != nil {
		return nil, err
	}
	p.syncUser(ctx, out)
	return &out, nil
}

// Badges returns earned badges.
func (p *ProfileAPI) Badges(ctx context.Context) (Result[[]account.Badge], error) {
	return withFallback(p.c, "profile.badges", []account.Badge{}, func(ctx context.Context) ([]account.Badge, error) {
		var out []account.Badge
		err := p.c.get(ctx, "/api/profile/badges", nil, &out)
		return out, err
	})(ctx)
}

// Achievements returns achievement progress.
func (p *ProfileAPI) Achievements(ctx context.Context) (Result[[]account.Achievement], error) {
	return withFallback(p.c, "profile.achievements", []account.Achievement{}, func(ctx context.Context) ([]account.Achievement, error) {
		var out []account.Achievement
		err := p.c.get(ctx, "/api/profile/achievements", nil, &out)
		return out, err
	})(ctx)
}

func (p *ProfileAPI) syncUser(ctx context.Context, prof account.Profile) {
	if err := p.c.session.SetUser(ctx, prof.Summary()); err != nil {
		p.c.logger.Warn("storing profile user", zap.Error(err))
	}
}
