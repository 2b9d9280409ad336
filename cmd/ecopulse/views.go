package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"github.com/TechyShie/ecopulse/internal/domain/chat"
	"github.com/TechyShie/ecopulse/internal/loadstate"
)

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := a.flags("dashboard")
	limit := fs.Int("limit", 5, "recent activities to show")
	retry := fs.Bool("retry", true, "offer to retry after a failed load")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	var state loadstate.State[api.Overview]
	ov, err := state.Load(ctx, func(ctx context.Context) (api.Overview, error) {
		return a.client.Dashboard.Overview(ctx, api.Page{Limit: *limit})
	})
	for err != nil && *retry && state.CanRetry() {
		fmt.Fprintf(a.errOut, "Loading the dashboard failed: %s\n", describe(err))
		answer, perr := a.prompt("Retry? [y/N] ")
		if perr != nil || !strings.EqualFold(answer, "y") {
			break
		}
		ov, err = state.Retry(ctx)
	}
	if err != nil {
		return err
	}

	s := ov.Stats.Value
	a.note(ov.Stats.Source, ov.Stats.Err)
	fmt.Fprintf(a.out, "CO2 saved:   %.2f kg\n", s.TotalEmissionsSaved)
	fmt.Fprintf(a.out, "Points:      %d\n", s.TotalPoints)
	fmt.Fprintf(a.out, "Eco score:   %d\n", s.EcoScore)
	fmt.Fprintf(a.out, "Activities:  %d\n", s.ActivitiesCount)
	fmt.Fprintf(a.out, "Streak:      %d days\n", s.CurrentStreak)
	if s.Rank > 0 {
		fmt.Fprintf(a.out, "Rank:        #%d\n", s.Rank)
	}

	fmt.Fprintln(a.out, "\nRecent activity")
	a.note(ov.Activities.Source, ov.Activities.Err)
	if len(ov.Activities.Value) == 0 {
		fmt.Fprintln(a.out, "Nothing logged yet. Try `ecopulse logs add`.")
		return nil
	}
	printLogs(a, ov.Activities.Value)
	return nil
}

func (a *app) insights(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	weekly, err := a.client.Insights.Weekly(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Last 7 days")
	a.note(weekly.Source, weekly.Err)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, p := range weekly.Value {
		fmt.Fprintf(tw, "%s\t%.2f kg\t%d pts\n", p.Day, p.EmissionsSaved, p.Points)
	}
	tw.Flush()

	cats, err := a.client.Insights.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nBy category")
	a.note(cats.Source, cats.Err)
	tw = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, c := range cats.Value {
		fmt.Fprintf(tw, "%s\t%.2f kg\t%d logs\n", c.Category, c.EmissionsSaved, c.Count)
	}
	tw.Flush()

	sum, err := a.client.Insights.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nSummary")
	a.note(sum.Source, sum.Err)
	fmt.Fprintf(a.out, "%d logs, %.2f kg saved, %.2f kg per log", sum.Value.TotalLogs, sum.Value.TotalEmissions, sum.Value.AverageEmission)
	if sum.Value.TopCategory != "" {
		fmt.Fprintf(a.out, ", mostly %s", sum.Value.TopCategory)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) leaderboard(ctx context.Context, args []string) error {
	fs := a.flags("leaderboard")
	skip := fs.Int("skip", 0, "entries to skip")
	limit := fs.Int("limit", 10, "entries to show")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	res, err := a.client.Leaderboard.Get(ctx, api.Page{Skip: *skip, Limit: *limit})
	if err != nil {
		return err
	}
	a.note(res.Source, res.Err)

	me := ""
	if u := a.session.User(ctx); u != nil {
		me = u.Username
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSER\tSCORE\tKG CO2")
	for _, e := range res.Value {
		marker := ""
		if e.Username == me {
			marker = " (you)"
		}
		fmt.Fprintf(tw, "%d\t%s%s\t%d\t%.2f\n", e.Rank, e.Username, marker, e.EcoScore, e.EmissionsSaved)
	}
	tw.Flush()
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := a.flags("profile")
	username := fs.String("username", "", "new username")
	name := fs.String("name", "", "new full name")
	bio := fs.String("bio", "", "new bio")
	location := fs.String("location", "", "new location")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	var upd account.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "username":
			upd.Username = username
		case "name":
			upd.FullName = name
		case "bio":
			upd.Bio = bio
		case "location":
			upd.Location = location
		}
	})

	var prof *account.Profile
	var err error
	if fs.NFlag() > 0 {
		prof, err = a.client.Profile.Update(ctx, upd)
	} else {
		prof, err = a.client.Profile.Get(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (@%s)\n", prof.FullName, prof.Username)
	fmt.Fprintf(a.out, "  email:     %s\n", prof.Email)
	if prof.Location != "" {
		fmt.Fprintf(a.out, "  location:  %s\n", prof.Location)
	}
	if prof.Bio != "" {
		fmt.Fprintf(a.out, "  bio:       %s\n", prof.Bio)
	}
	fmt.Fprintf(a.out, "  eco score: %d\n", prof.EcoScore)

	badges, err := a.client.Profile.Badges(ctx)
	if err != nil {
		return err
	}
	if len(badges.Value) > 0 {
		fmt.Fprintln(a.out, "\nBadges")
		for _, b := range badges.Value {
			fmt.Fprintf(a.out, "  %s: %s\n", b.Name, b.Description)
		}
	}

	achievements, err := a.client.Profile.Achievements(ctx)
	if err != nil {
		return err
	}
	if len(achievements.Value) > 0 {
		fmt.Fprintln(a.out, "\nAchievements")
		for _, ach := range achievements.Value {
			status := fmt.Sprintf("%d/%d", ach.Progress, ach.Target)
			if ach.Completed {
				status = "done"
			}
			fmt.Fprintf(a.out, "  %s [%s]: %s\n", ach.Name, status, ach.Description)
		}
	}
	return nil
}

// chat sends the arguments as one prompt, or reads prompts line by line
// until EOF or "exit".
func (a *app) chat(ctx context.Context, args []string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	conv := &chat.Conversation{}

	if len(args) > 0 {
		turn, err := a.client.AI.Ask(ctx, conv, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, turn.Text)
		return nil
	}

	fmt.Fprintln(a.out, "Ask the EcoPulse assistant anything. Type exit to quit.")
	for {
		prompt, err := a.prompt("> ")
		if err != nil {
			return err
		}
		if prompt == "" {
			if _, perr := a.in.Peek(1); perr != nil {
				return nil
			}
			continue
		}
		if prompt == "exit" || prompt == "quit" {
			return nil
		}
		turn, err := a.client.AI.Ask(ctx, conv, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, turn.Text)
	}
}
