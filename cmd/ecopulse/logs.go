package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
)

// listFetchLimit bounds the logs fetched before local filtering.
const listFetchLimit = 1000

func (a *app) logs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "usage: ecopulse logs list|add|update|delete|sync [flags]")
		return errUsage
	}
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		return a.listLogs(ctx, args[1:])
	case "add":
		return a.addLog(ctx, args[1:])
	case "update":
		return a.updateLog(ctx, args[1:])
	case "delete":
		return a.deleteLog(ctx, args[1:])
	case "sync":
		return a.syncLogs(ctx)
	default:
		fmt.Fprintf(a.errOut, "unknown logs command %q\n", args[0])
		return errUsage
	}
}

func (a *app) listLogs(ctx context.Context, args []string) error {
	fs := a.flags("logs list")
	search := fs.String("search", "", "text to find in description, notes or location")
	category := fs.String("category", collection.CategoryAll, "category to show")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	sortBy := fs.String("sort", string(collection.SortByDate), "date, created_at, emissions, points, type or description")
	order := fs.String("order", string(collection.Desc), "asc or desc")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", collection.DefaultPageSize, "logs per page")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	params := collection.Params{
		SearchTerm: *search,
		Category:   *category,
		Page:       *page,
		PageSize:   *size,
		SortBy:     collection.ParseSortField(*sortBy),
		SortOrder:  collection.ParseSortOrder(*order),
	}
	var err error
	if params.DateFrom, err = optionalDate("from", *from); err != nil {
		return err
	}
	if params.DateTo, err = optionalDate("to", *to); err != nil {
		return err
	}

	res, err := a.client.Logs.ListWithPending(ctx, api.Page{Limit: listFetchLimit})
	if err != nil {
		return err
	}
	a.note(res.Source, res.Err)

	logs, info := collection.Apply(res.Value, params)
	if len(logs) == 0 {
		fmt.Fprintln(a.out, "No activity logs match.")
		return nil
	}
	printLogs(a, logs)
	fmt.Fprintf(a.out, "Page %d of %d (%d logs)\n", info.Page, max(info.TotalPages, 1), info.Total)
	return nil
}

type logFlags struct {
	kind, desc, date, notes, location *string
	kg                                *float64
	points                            *int
}

func addLogFlags(fs *flag.FlagSet) *logFlags {
	return &logFlags{
		kind:     fs.String("type", "", "category: transportation, energy, food, waste, shopping or other"),
		desc:     fs.String("desc", "", "what you did"),
		kg:       fs.Float64("kg", 0, "kilograms of CO2 saved"),
		points:   fs.Int("points", 0, "points earned (computed by the server when 0)"),
		date:     fs.String("date", "", "activity date, YYYY-MM-DD (default today)"),
		notes:    fs.String("notes", "", "notes"),
		location: fs.String("location", "", "where it happened"),
	}
}

// apply copies the flags that were set on the command line onto in.
func (f *logFlags) apply(fs *flag.FlagSet, in *activity.Input) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "type":
			in.ActivityType = *f.kind
		case "desc":
			in.Description = *f.desc
		case "kg":
			in.EmissionsSaved = *f.kg
		case "points":
			in.PointsEarned = *f.points
		case "date":
			if d, perr := activity.ParseDate(*f.date); perr != nil {
				err = fmt.Errorf("-date: %w", perr)
			} else {
				in.ActivityDate = d
			}
		case "notes":
			in.Notes = *f.notes
		case "location":
			in.Location = *f.location
		}
	})
	return err
}

func (a *app) addLog(ctx context.Context, args []string) error {
	fs := a.flags("logs add")
	lf := addLogFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}

	in := activity.Input{ActivityDate: activity.DateOf(time.Now())}
	if err := lf.apply(fs, &in); err != nil {
		return err
	}
	created, err := a.client.Logs.CreateOrQueue(ctx, in)
	if err != nil {
		return err
	}
	if created.Pending() {
		warnColor.Fprintf(a.out, "Server unreachable. Saved locally as %s; run `ecopulse logs sync` later.\n", created.ID)
		return nil
	}
	okColor.Fprintf(a.out, "Logged %s (%s, %.2f kg CO2, %d points).\n", created.ID, created.Category(), created.EmissionsSaved, created.PointsEarned)
	return nil
}

func (a *app) updateLog(ctx context.Context, args []string) error {
	fs := a.flags("logs update")
	id := fs.String("id", "", "log id")
	lf := addLogFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	logID, err := requireID(*id)
	if err != nil {
		return err
	}

	current, err := a.findLog(ctx, logID)
	if err != nil {
		return err
	}
	in := activity.InputFrom(current)
	if err := lf.apply(fs, &in); err != nil {
		return err
	}
	updated, err := a.client.Logs.Update(ctx, logID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s.\n", updated.ID)
	return nil
}

func (a *app) deleteLog(ctx context.Context, args []string) error {
	fs := a.flags("logs delete")
	id := fs.String("id", "", "log id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	logID, err := requireID(*id)
	if err != nil {
		return err
	}
	if err := a.client.Logs.Delete(ctx, logID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s.\n", logID)
	return nil
}

func (a *app) syncLogs(ctx context.Context) error {
	results, err := a.client.Logs.SyncPending(ctx)
	for _, r := range results {
		if r.Synced() {
			fmt.Fprintf(a.out, "%s -> %s\n", r.LocalID, r.Created.ID)
		} else {
			warnColor.Fprintf(a.out, "%s not synced: %s\n", r.LocalID, describe(r.Err))
		}
	}
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "Nothing to sync.")
	}
	return nil
}

// findLog looks a log up among the server logs and the local queue.
func (a *app) findLog(ctx context.Context, id activity.LogID) (activity.Log, error) {
	res, err := a.client.Logs.ListWithPending(ctx, api.Page{Limit: listFetchLimit})
	if err != nil {
		return activity.Log{}, err
	}
	if res.Degraded() && !id.IsPending() {
		return activity.Log{}, fmt.Errorf("cannot load log %s: %s", id, describe(res.Err))
	}
	for _, l := range res.Value {
		if l.ID == id {
			return l, nil
		}
	}
	return activity.Log{}, fmt.Errorf("log %s not found", id)
}

func requireID(s string) (activity.LogID, error) {
	if s == "" {
		return activity.LogID{}, errors.New("-id is required")
	}
	id, err := activity.ParseLogID(s)
	if err != nil {
		return activity.LogID{}, fmt.Errorf("-id: %w", err)
	}
	return id, nil
}

func optionalDate(name, s string) (activity.Date, error) {
	if s == "" {
		return activity.Date{}, nil
	}
	d, err := activity.ParseDate(s)
	if err != nil {
		return activity.Date{}, fmt.Errorf("-%s: %w", name, err)
	}
	return d, nil
}

func printLogs(a *app, logs []activity.Log) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tKG CO2\tPOINTS\tDESCRIPTION")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n", l.ID, l.ActivityDate, l.Category(), l.EmissionsSaved, l.PointsEarned, l.Description)
	}
	tw.Flush()
}
