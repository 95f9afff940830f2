package widget

import (
	"encoding/json"
	"slices"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

const welcomeText = "Hi! I'm Vera from Vernon Skin Clinic. Ask me about treatments, costs, our doctors or " +
	"branches, or share a photo for a quick skin check. How can I help you today?"

// Welcome is the synthetic greeting every fresh transcript starts with.
func Welcome() agent.Message {
	return agent.Message{ID: agent.WelcomeMessageID, Role: agent.RoleAssistant, Parts: []agent.Part{agent.TextPart(welcomeText)}}
}

type Status string

const (
	StatusReady     Status = "ready"
	StatusStreaming Status = "streaming"
	StatusError     Status = "error"
)

type Failure struct {
	Code    string
	Message string
}

// State is what the widget renders. Messages only grows during a session;
// Pending holds the assistant reply while it streams.
type State struct {
	Messages []agent.Message
	Status   Status
	Pending  *agent.Message
	Failure  *Failure
	Draft    string
}

func initialState() State {
	return State{Messages: []agent.Message{Welcome()}, Status: StatusReady}
}

// Reduce folds one stream event into the state. It never mutates s.
func Reduce(s State, e agent.Event) State {
	switch e.Type {
	case agent.EventTextDelta:
		if e.Delta == "" {
			return s
		}
		p := s.pending()
		if n := len(p.Parts); n > 0 && p.Parts[n-1].Type == agent.PartText {
			p.Parts[n-1].Text += e.Delta
		} else {
			p.Parts = append(p.Parts, agent.TextPart(e.Delta))
		}
		s.Pending, s.Status = p, StatusStreaming

	case agent.EventToolRequested:
		p := s.pending()
		if p.ToolPart(e.ToolCallID) == nil {
			p.Parts = append(p.Parts, agent.Part{
				Type:       agent.PartToolInvocation,
				ToolCallID: e.ToolCallID,
				ToolName:   e.ToolName,
				State:      agent.StateInputAvailable,
				Input:      e.Input,
			})
		}
		s.Pending, s.Status = p, StatusStreaming

	case agent.EventToolExecuting:
		s.Status = StatusStreaming

	case agent.EventToolResolved:
		p := s.pending()
		if part := p.ToolPart(e.ToolCallID); part != nil {
			part.State = agent.StateOutputAvailable
			part.Output = e.Output
		}
		s.Pending, s.Status = p, StatusStreaming

	case agent.EventTurnComplete:
		final := e.Message
		if final == nil && s.Pending != nil && len(s.Pending.Parts) > 0 {
			final = s.Pending
		}
		if final != nil {
			s.Messages = append(slices.Clip(s.Messages), *final)
		}
		s.Pending, s.Failure, s.Status = nil, nil, StatusReady

	case agent.EventTurnFailed:
		// 부분 응답은 버린다. 재시도 시 같은 대화로 다시 요청한다.
		s.Pending, s.Status = nil, StatusError
		s.Failure = &Failure{Code: e.ErrorCode, Message: e.Error}
	}
	return s
}

// pending returns a copy of the streaming message that is safe to modify.
func (s State) pending() *agent.Message {
	if s.Pending == nil {
		return &agent.Message{Role: agent.RoleAssistant}
	}
	cp := *s.Pending
	cp.Parts = slices.Clone(s.Pending.Parts)
	return &cp
}

// LastAssistant is the latest finished assistant message, the welcome included.
func (s State) LastAssistant() (agent.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == agent.RoleAssistant {
			return s.Messages[i], true
		}
	}
	return agent.Message{}, false
}

// BookingResult extracts a confirmed booking from the message's tool parts
// for card rendering.
func BookingResult(m agent.Message) (*booking.Details, bool) {
	for _, p := range m.Parts {
		if p.Type != agent.PartToolInvocation || p.ToolName != string(tools.BookAppointment) || p.State != agent.StateOutputAvailable {
			continue
		}
		var out tools.BookAppointmentOutput
		if err := json.Unmarshal(p.Output, &out); err != nil {
			continue
		}
		if out.Success && out.BookingDetails != nil {
			return out.BookingDetails, true
		}
	}
	return nil, false
}

// WhatsAppLink returns the handoff link produced in this message, if any.
func WhatsAppLink(m agent.Message) (string, bool) {
	for _, p := range m.Parts {
		if p.Type != agent.PartToolInvocation || p.ToolName != string(tools.GenerateWhatsAppLink) || p.State != agent.StateOutputAvailable {
			continue
		}
		var out tools.GenerateWhatsAppLinkOutput
		if err := json.Unmarshal(p.Output, &out); err == nil && out.Success {
			return out.URL, true
		}
	}
	return "", false
}
