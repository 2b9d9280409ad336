package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `ecopulse-mcp reads and records a user's EcoPulse carbon footprint data.

Every tool acts as the user logged in with ` + "`ecopulse login`" + `. Tool calls fail with "not logged in" until then.

Typical flow:
1) Orient: call dashboard_stats for totals, streak and rank.
2) Browse: list_logs with search, category, date and sort filters. Results are paginated.
3) Record: log_activity for something the user did. Dates default to today.
4) Analyse: category_summary for totals per category in a date range.
5) Compare: leaderboard for the community ranking.
6) Advise: ask_assistant for tips. Each client session keeps its own conversation.

Results carry a source field:
- remote: fresh data from the EcoPulse API.
- cache: the API failed and the last good response was served.
- fallback: the API failed with nothing cached, so sample data was served.

A log whose id starts with "local-" is queued on this machine and has not reached the server yet. Run ` + "`ecopulse logs sync`" + ` to push queued logs.

Errors come back as JSON with code, message and recovery_hint. AUTH_EXPIRED means the user must log in again.

Docs:
- ecopulse://docs/categories
- ecopulse://docs/tools
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ecopulse://docs/categories",
		Name:        "docs_categories",
		Title:       "Activity categories",
		Description: "The activity categories EcoPulse groups logs by, with example activities.",
		Content: `# Activity categories

Logs are grouped by ` + "`activity_type`" + `. Matching is case-insensitive and surrounding spaces are ignored.

| Category | Examples |
| --- | --- |
| transportation | cycling to work, taking the train, carpooling |
| energy | line-drying laundry, switching off standby devices |
| food | a plant-based meal, buying local produce |
| waste | composting, repairing instead of replacing |
| shopping | buying second hand, skipping single-use packaging |
| other | anything that does not fit above |

Any other value is lower-cased and reported as its own category.

## Units

- ` + "`emissions_saved`" + ` is kilograms of CO2.
- ` + "`points_earned`" + ` is computed by the server from emissions when omitted.
`,
	},
	{
		URI:         "ecopulse://docs/tools",
		Name:        "docs_tools",
		Title:       "Tool reference",
		Description: "Arguments and results of each EcoPulse tool.",
		Content: `# Tool reference

## dashboard_stats
No arguments. Returns ` + "`stats`" + ` (total emissions saved, points, eco score, streak, rank) and ` + "`source`" + `.

## list_logs
Arguments: ` + "`search`, `category`, `date_from`, `date_to`, `page`, `page_size`, `sort_by`, `sort_order`" + `.
Dates are YYYY-MM-DD and inclusive. ` + "`sort_by`" + ` is one of date, created_at, emissions, points, type or description.
Returns ` + "`logs`" + `, ` + "`page`" + ` (page, limit, total, total_pages, has_next, has_prev) and ` + "`source`" + `.
Queued local logs are listed first.

## log_activity
Arguments: ` + "`activity_type`, `description`, `emissions_saved`" + ` (required) and ` + "`points_earned`, `activity_date`, `notes`, `location`" + `.
Returns the stored ` + "`log`" + `. ` + "`pending`" + ` is true when the API was unreachable and the log was queued locally.

## category_summary
Arguments: ` + "`date_from`, `date_to`" + `.
Returns ` + "`categories`" + ` (sorted by name) and an overall ` + "`summary`" + `.

## leaderboard
Arguments: ` + "`skip`, `limit`" + `. Returns ` + "`entries`" + ` ordered by rank.

## ask_assistant
Arguments: ` + "`prompt`" + `. Returns ` + "`reply`" + `. ` + "`fallback`" + ` is true when the assistant could not be reached.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
