package clientws

import (
	"encoding/json"

	"yuzu/tutor/internal/presenter"
)

// Frame types.
const (
	TypeClientHello  = "client_hello"
	TypeToolCall     = "tool_call"
	TypeInteraction  = "interaction"
	TypeToolResult   = "tool_result"
	TypeAgentMessage = "agent_message"
	TypeView         = "view"
	TypeToast        = "toast"
	TypeCamera       = "camera"
	TypeError        = "error"
)

// Message is one websocket frame in either direction. Only the fields relevant to
// Type are set.
type Message struct {
	Type      string `json:"type"`
	TsMs      int64  `json:"ts_ms"`
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`

	CallID   string          `json:"call_id,omitempty"`
	Tool     string          `json:"tool,omitempty"`
	Activity string          `json:"activity,omitempty"`
	Action   string          `json:"action,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`

	Text    string           `json:"text,omitempty"`
	IsError bool             `json:"is_error,omitempty"`
	View    any              `json:"view,omitempty"`
	Toast   *presenter.Toast `json:"toast,omitempty"`
}
