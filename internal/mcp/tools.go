package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/collection"
	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/TechyShie/ecopulse/internal/domain/chat"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// maxFetch bounds how many logs are pulled before local filtering.
const maxFetch = 1000

type tools struct {
	svc    Services
	logger *zap.Logger
	convs  *conversations
	now    func() time.Time
}

func registerTools(server *sdkmcp.Server, svc Services, logger *zap.Logger) {
	t := &tools{svc: svc, logger: logger, convs: newConversations(), now: time.Now}

	if svc.Dashboard != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "dashboard_stats",
			Description: "Get the user's dashboard totals: emissions saved, points, eco score, streak and rank",
		}, t.dashboardStats)
	}
	if svc.Logs != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_logs",
			Description: "List activity logs with optional search, category and date filters, sorting and pagination",
		}, t.listLogs)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "log_activity",
			Description: "Record an eco-friendly activity. Queued locally and synced later when the server is unreachable",
		}, t.logActivity)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "category_summary",
			Description: "Total emissions saved and activity count per category, optionally within a date range",
		}, t.categorySummary)
	}
	if svc.Leaderboard != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "leaderboard",
			Description: "Get a page of the community leaderboard",
		}, t.leaderboard)
	}
	if svc.Assistant != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "ask_assistant",
			Description: "Ask the EcoPulse AI assistant for sustainability advice",
		}, t.askAssistant)
	}
}

func (t *tools) dashboardStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ DashboardStatsParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.svc.Dashboard.Stats(ctx)
	if err != nil {
		return t.toolError("dashboard_stats", err)
	}
	return jsonResult(DashboardStatsResponse{Stats: res.Value, Source: res.Source})
}

func (t *tools) listLogs(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListLogsParams) (*sdkmcp.CallToolResult, any, error) {
	params := collection.DefaultParams()
	params.SearchTerm = in.Search
	if in.Category != "" {
		params.Category = in.Category
	}
	var err error
	if params.DateFrom, params.DateTo, err = dateRange(in.DateFrom, in.DateTo); err != nil {
		return t.toolError("list_logs", err)
	}
	if in.Page > 0 {
		params.Page = in.Page
	}
	if in.PageSize > 0 {
		params.PageSize = in.PageSize
	}
	if in.SortBy != "" {
		params.SortBy = collection.ParseSortField(in.SortBy)
	}
	if in.SortOrder != "" {
		params.SortOrder = collection.ParseSortOrder(in.SortOrder)
	}

	res, err := t.svc.Logs.ListWithPending(ctx, api.Page{Limit: maxFetch})
	if err != nil {
		return t.toolError("list_logs", err)
	}
	logs, page := collection.Apply(res.Value, params)
	return jsonResult(ListLogsResponse{Logs: logs, Page: page, Source: res.Source})
}

func (t *tools) logActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in LogActivityParams) (*sdkmcp.CallToolResult, any, error) {
	date := activity.DateOf(t.now())
	if in.ActivityDate != "" {
		d, err := activity.ParseDate(in.ActivityDate)
		if err != nil {
			return t.toolError("log_activity", invalidField("activity_date", "must be a date in YYYY-MM-DD form"))
		}
		date = d
	}

	created, err := t.svc.Logs.CreateOrQueue(ctx, activity.Input{
		ActivityType:   in.ActivityType,
		Description:    in.Description,
		EmissionsSaved: in.EmissionsSaved,
		PointsEarned:   in.PointsEarned,
		ActivityDate:   date,
		Notes:          in.Notes,
		Location:       in.Location,
	})
	if err != nil {
		return t.toolError("log_activity", err)
	}
	return jsonResult(LogActivityResponse{Log: *created, Pending: created.Pending()})
}

func (t *tools) categorySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, in CategorySummaryParams) (*sdkmcp.CallToolResult, any, error) {
	from, to, err := dateRange(in.DateFrom, in.DateTo)
	if err != nil {
		return t.toolError("category_summary", err)
	}
	res, err := t.svc.Logs.ListWithPending(ctx, api.Page{Limit: maxFetch})
	if err != nil {
		return t.toolError("category_summary", err)
	}
	logs := collection.Where(res.Value, collection.MatchDateRange(from, to))
	return jsonResult(CategorySummaryResponse{
		Categories: collection.AggregateByCategory(logs),
		Summary:    collection.Summarize(logs),
		Source:     res.Source,
	})
}

func (t *tools) leaderboard(ctx context.Context, _ *sdkmcp.CallToolRequest, in LeaderboardParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.svc.Leaderboard.Get(ctx, api.Page{Skip: in.Skip, Limit: in.Limit})
	if err != nil {
		return t.toolError("leaderboard", err)
	}
	return jsonResult(LeaderboardResponse{Entries: res.Value, Source: res.Source})
}

func (t *tools) askAssistant(ctx context.Context, req *sdkmcp.CallToolRequest, in AskAssistantParams) (*sdkmcp.CallToolResult, any, error) {
	var session *sdkmcp.ServerSession
	if req != nil {
		session = req.Session
	}
	turn, err := t.svc.Assistant.Ask(ctx, t.convs.get(session), in.Prompt)
	if err != nil {
		return t.toolError("ask_assistant", err)
	}
	return jsonResult(AskAssistantResponse{Reply: turn.Text, Fallback: turn.Fallback})
}

// conversations holds one assistant conversation per client session. A
// conversation is dropped when its session disconnects.
type conversations struct {
	mu        sync.Mutex
	bySession map[*sdkmcp.ServerSession]*chat.Conversation
	shared    *chat.Conversation
}

func newConversations() *conversations {
	return &conversations{
		bySession: make(map[*sdkmcp.ServerSession]*chat.Conversation),
		shared:    &chat.Conversation{},
	}
}

func (c *conversations) get(session *sdkmcp.ServerSession) *chat.Conversation {
	if session == nil {
		return c.shared
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.bySession[session]
	if !ok {
		conv = &chat.Conversation{}
		c.bySession[session] = conv
		go func() {
			_ = session.Wait()
			c.forget(session)
		}()
	}
	return conv
}

func (c *conversations) forget(session *sdkmcp.ServerSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bySession, session)
}

func (c *conversations) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bySession)
}

func dateRange(from, to string) (activity.Date, activity.Date, error) {
	var dFrom, dTo activity.Date
	var err error
	if from != "" {
		if dFrom, err = activity.ParseDate(from); err != nil {
			return dFrom, dTo, invalidField("date_from", "must be a date in YYYY-MM-DD form")
		}
	}
	if to != "" {
		if dTo, err = activity.ParseDate(to); err != nil {
			return dFrom, dTo, invalidField("date_to", "must be a date in YYYY-MM-DD form")
		}
	}
	return dFrom, dTo, nil
}

func invalidField(field, msg string) error {
	return apierror.Validation(field+" "+msg, map[string]string{field: msg})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func (t *tools) toolError(tool string, err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	t.logger.Info("tool call failed", zap.String("tool", tool), zap.String("code", apiErr.Code), zap.Error(err))
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		return nil, nil, fmt.Errorf("encoding tool error: %w", mErr)
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
