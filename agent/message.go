package agent

import (
	"encoding/json"
	"strings"

	"github.com/SaisandeepKv/vernon-clinic-sub000/llm"
	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type PartType string

const (
	PartText           PartType = "text"
	PartFile           PartType = "file"
	PartToolInvocation PartType = "tool-invocation"
)

type ToolState string

const (
	StateInputStreaming  ToolState = "input-streaming"
	StateInputAvailable  ToolState = "input-available"
	StateOutputAvailable ToolState = "output-available"
)

// WelcomeMessageID marks the synthetic greeting the widget seeds every
// session with. It is never forwarded to the model.
const WelcomeMessageID = "welcome"

// Part is one segment of a message. Type selects which fields are set.
type Part struct {
	Type PartType `json:"type"`

	Text string `json:"text,omitempty"`

	MediaType string `json:"mediaType,omitempty"`
	URL       string `json:"url,omitempty"`

	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	State      ToolState       `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

type Message struct {
	ID    string `json:"id,omitempty"`
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

func TextPart(s string) Part { return Part{Type: PartText, Text: s} }

// Text concatenates the message's text parts in order.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// ToolPart returns the invocation part for the given call id.
func (m *Message) ToolPart(id string) *Part {
	for i := range m.Parts {
		if m.Parts[i].Type == PartToolInvocation && m.Parts[i].ToolCallID == id {
			return &m.Parts[i]
		}
	}
	return nil
}

// MaxHistory is the most messages one chat request carries. The widget sends
// the most recent ones and the API trims anything longer the same way.
const MaxHistory = 100

// RecentHistory keeps at most limit trailing messages. The kept window starts
// at a user message; tool invocations live inside their assistant message, so
// a call is never separated from its result.
func RecentHistory(msgs []Message, limit int) []Message {
	if limit <= 0 || len(msgs) <= limit {
		return msgs
	}
	tail := msgs[len(msgs)-limit:]
	for i, m := range tail {
		if m.Role == RoleUser {
			return tail[i:]
		}
	}
	return tail
}

// LatestUserText is the text of the last user message, or "".
func LatestUserText(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Text()
		}
	}
	return ""
}

// UserTexts collects everything the user typed in the conversation.
func UserTexts(msgs []Message) []string {
	var out []string
	for _, m := range msgs {
		if m.Role != RoleUser {
			continue
		}
		if t := m.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// toTurns converts the client transcript into model history. The welcome
// message is dropped, unreadable attachments are skipped, and resolved tool
// invocations become a call turn followed by a result turn.
func toTurns(msgs []Message) []llm.Turn {
	var turns []llm.Turn
	for _, m := range msgs {
		if m.ID == WelcomeMessageID {
			continue
		}
		if m.Role == RoleUser {
			t := llm.Turn{Role: llm.RoleUser}
			for _, p := range m.Parts {
				switch p.Type {
				case PartText:
					if strings.TrimSpace(p.Text) != "" {
						t.Parts = append(t.Parts, llm.Part{Text: p.Text})
					}
				case PartFile:
					mt, data, err := media.DecodeImage(p.URL)
					if err != nil {
						continue
					}
					t.Parts = append(t.Parts, llm.Part{Image: &llm.Blob{MIMEType: mt, Data: data}})
				}
			}
			if len(t.Parts) > 0 {
				turns = append(turns, t)
			}
			continue
		}

		model := llm.Turn{Role: llm.RoleModel}
		for _, p := range m.Parts {
			switch p.Type {
			case PartText:
				if p.Text != "" {
					model.Parts = append(model.Parts, llm.Part{Text: p.Text})
				}
			case PartToolInvocation:
				if p.State != StateOutputAvailable {
					continue
				}
				input := p.Input
				if len(input) == 0 {
					input = json.RawMessage("{}")
				}
				model.Parts = append(model.Parts, llm.Part{Call: &llm.ToolCall{ID: p.ToolCallID, Name: p.ToolName, Args: input}})
				// a result must directly follow the turn holding its call
				turns = append(turns, model,
					llm.Turn{Role: llm.RoleUser, Parts: []llm.Part{{Result: &llm.ToolResult{ID: p.ToolCallID, Name: p.ToolName, Output: p.Output}}}})
				model = llm.Turn{Role: llm.RoleModel}
			}
		}
		if len(model.Parts) > 0 {
			turns = append(turns, model)
		}
	}
	return turns
}
