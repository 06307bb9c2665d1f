// Package mcpserver exposes the presentation tools of a tutoring session over the
// Model Context Protocol, so any MCP-capable agent can drive the activities.
package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/toolcall"
)

const serverName = "yuzu-tutor"

var ErrSessionClosed = errors.New("session is closed")

// Invoker presents a decoded tool call.
type Invoker interface {
	Invoke(ctx context.Context, c toolcall.Call) (session.Result, error)
}

// New builds an MCP server with one tool per activity, all backed by inv.
func New(inv Invoker, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	desc := make(map[string]string)
	for _, d := range toolcall.Definitions() {
		desc[d.Name] = d.Description
	}
	addTool[toolcall.LessonWords](srv, toolcall.NamePresentLessonWords, desc, inv)
	addTool[toolcall.Quiz](srv, toolcall.NamePresentQuiz, desc, inv)
	addTool[toolcall.Cloze](srv, toolcall.NamePresentCloze, desc, inv)
	addTool[toolcall.PhotoQuiz](srv, toolcall.NamePresentPhotoQuiz, desc, inv)
	addTool[toolcall.DragTrueOrFalse](srv, toolcall.NamePresentDragTrueOrFalse, desc, inv)
	addTool[toolcall.PresentWord](srv, toolcall.NamePresentWord, desc, inv)
	addTool[toolcall.SentenceBuilder](srv, toolcall.NamePresentSentenceBuilder, desc, inv)
	addTool[toolcall.CameraActivity](srv, toolcall.NamePresentCameraActivity, desc, inv)
	addTool[toolcall.BadgeAward](srv, toolcall.NamePresentBadgeAward, desc, inv)
	addTool[toolcall.ReorderGame](srv, toolcall.NamePresentReorderGame, desc, inv)
	return srv
}

func addTool[T toolcall.Call](srv *mcp.Server, name string, desc map[string]string, inv Invoker) {
	tool := &mcp.Tool{Name: name, Description: desc[name]}
	mcp.AddTool(srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in T) (*mcp.CallToolResult, any, error) {
		metricCalls.WithLabelValues(name).Inc()
		if err := in.Validate(); err != nil {
			return errorResult(err), nil, nil
		}
		res, err := inv.Invoke(ctx, in)
		if err != nil {
			return errorResult(err), nil, nil
		}
		text := strings.Join(res.Messages, "\n")
		if text == "" {
			text = res.Activity.String() + " presented."
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	})
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// sessionInvoker resolves the session on every call so an ended session is not
// resurrected by a late tool call.
type sessionInvoker struct {
	sessions *session.Manager
	id       string
}

func (si sessionInvoker) Invoke(ctx context.Context, c toolcall.Call) (session.Result, error) {
	s := si.sessions.Get(si.id)
	if s == nil {
		return session.Result{}, ErrSessionClosed
	}
	return s.Invoke(ctx, c)
}
