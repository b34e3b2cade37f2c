package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/folio/internal/session"
)

// NewMCPServer exposes the portfolio assistant over MCP: tools for asking
// questions and selecting a project focus, plus the profile as a resource.
// Sessions created through MCP live in the same in-memory registry as HTTP
// sessions.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"folio",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("folio — conversational assistant over one person's professional portfolio."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the portfolio assistant a question. Omit session_id to start a new conversation; pass the returned session_id to continue it."),
			mcp.WithString("question", mcp.Description("The question to ask"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Session to continue (optional)")),
		),
		mcpAsk(deps),
	)

	s.AddTool(
		mcp.NewTool("select_project",
			mcp.WithDescription("Select a project for deep explanation in a session, or pass an empty name to return to broad mode. An unknown name clears the selection."),
			mcp.WithString("session_id", mcp.Description("Session to modify"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Exact project name, or empty to clear")),
		),
		mcpSelectProject(deps),
	)

	s.AddTool(
		mcp.NewTool("list_projects",
			mcp.WithDescription("List the projects in the portfolio."),
		),
		mcpListProjects(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"portfolio://profile",
			"Portfolio Profile",
			mcp.WithResourceDescription("The full portfolio profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpAsk(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		sessionID := req.GetString("session_id", "")
		var s *session.Session
		if sessionID == "" {
			s = deps.Sessions.Create()
		} else {
			s, err = deps.Sessions.Get(sessionID)
			if err != nil {
				return mcpError(fmt.Sprintf("unknown session %q", sessionID)), nil
			}
		}

		lock := deps.Sessions.SessionLock(s.ID)
		lock.Lock()
		reply, err := deps.Engine.Respond(ctx, s, question)
		lock.Unlock()
		if err != nil {
			return mcpError(fmt.Sprintf("completion failed: %v", err)), nil
		}

		payload, err := json.Marshal(map[string]string{
			"session_id": s.ID,
			"reply":      reply,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(payload)), nil
	}
}

func mcpSelectProject(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		name := req.GetString("name", "")

		s, err := deps.Sessions.Get(sessionID)
		if err != nil {
			return mcpError(fmt.Sprintf("unknown session %q", sessionID)), nil
		}

		lock := deps.Sessions.SessionLock(s.ID)
		lock.Lock()
		s.SetFocus(deps.Knowledge, name)
		focus := s.Focus()
		lock.Unlock()

		if focus != "" {
			return mcpText(fmt.Sprintf("Focused on project %q", focus)), nil
		}
		return mcpText("No project focused (broad mode)"), nil
	}
}

func mcpListProjects(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type projectEntry struct {
			Name     string `json:"name"`
			Type     string `json:"type"`
			Category string `json:"category,omitempty"`
		}

		projects := deps.Knowledge.Projects()
		entries := make([]projectEntry, len(projects))
		for i, p := range projects {
			entries[i] = projectEntry{Name: p.Name, Type: p.Type, Category: p.Category}
		}

		b, err := json.Marshal(entries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal projects: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfile(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Knowledge.Profile())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
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
