package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/recommend"
)

// TodayStatus is the body of the mood://today resource.
type TodayStatus struct {
	CheckedInToday bool        `json:"checked_in_today"`
	CurrentMood    string      `json:"current_mood"`
	Latest         *mood.Entry `json:"latest,omitempty"`
}

// NewMCPServer creates an MCP server with the mood tools and resources registered.
func NewMCPServer(d *dashboard.Dashboard, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"studentwell",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("studentwell: a local daily mood journal with trends and wellness suggestions."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("record_mood",
			mcp.WithDescription("Record today's mood check-in. Only one check-in per calendar day is accepted."),
			mcp.WithNumber("value", mcp.Description("Mood from 1 (Poor) to 5 (Excellent)")),
			mcp.WithString("mood", mcp.Description("Mood label (poor, low, neutral, good, excellent); used when value is absent")),
			mcp.WithString("notes", mcp.Description("Optional free-text notes")),
		),
		mcpRecordMood(d),
	)

	s.AddTool(
		mcp.NewTool("mood_trends",
			mcp.WithDescription("Return averages, the recent trend line and the mood distribution as JSON."),
		),
		mcpMoodTrends(d),
	)

	s.AddTool(
		mcp.NewTool("wellness_recommendations",
			mcp.WithDescription("Return wellness suggestions for a mood label, defaulting to the current mood."),
			mcp.WithString("mood", mcp.Description("Mood label; omitted means the most recent check-in")),
		),
		mcpRecommendations(d),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"mood://history",
			"Mood History",
			mcp.WithResourceDescription("All recorded check-ins, oldest first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceHistory(d),
	)

	s.AddResource(
		mcp.NewResource(
			"mood://today",
			"Today",
			mcp.WithResourceDescription("Whether today has a check-in, and the current mood"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceToday(d),
	)

	return s
}

func mcpRecordMood(d *dashboard.Dashboard) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value := req.GetInt("value", 0)
		if value == 0 {
			if label := req.GetString("mood", ""); label != "" {
				lvl, err := mood.ParseLevel(label)
				if err != nil {
					return mcpError(err.Error()), nil
				}
				value = lvl.Value
			}
		}
		if value == 0 {
			return mcpError("value or mood is required"), nil
		}

		entry, note, err := d.CheckIn(value, req.GetString("notes", ""))
		if errors.Is(err, dashboard.ErrAlreadyCheckedIn) {
			return mcpError("already checked in today"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to record mood: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("%s: %s %s. %s", note.Title, entry.Emoji, entry.Label, note.Description)), nil
	}
}

func mcpMoodTrends(d *dashboard.Dashboard) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(d.Trends())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal trends: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecommendations(d *dashboard.Dashboard) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		label := req.GetString("mood", "")
		if label == "" {
			label = d.CurrentMood()
		}
		return mcpText(recommend.Markdown(label)), nil
	}
}

func mcpResourceHistory(d *dashboard.Dashboard) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		h := d.History()
		if h == nil {
			h = mood.History{}
		}
		return jsonResource(req.Params.URI, h)
	}
}

func mcpResourceToday(d *dashboard.Dashboard) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap := d.Snapshot()
		return jsonResource(req.Params.URI, TodayStatus{
			CheckedInToday: snap.CheckedInToday,
			CurrentMood:    snap.CurrentMood,
			Latest:         snap.Latest,
		})
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
