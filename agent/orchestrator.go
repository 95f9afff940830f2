// Package agent turns one conversation into one streamed assistant turn.
//
// A turn alternates model steps and tool rounds. The model may use at most
// MaxToolRounds rounds; the step after that is forced to answer in text.
// Every turn ends with exactly one turn-complete or turn-failed event.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/llm"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// FallbackText is sent when the model ends a turn without saying anything.
const FallbackText = "I'm sorry, I couldn't put together a complete answer just now. " +
	"Please call us on " + content.EmergencyPhone + " or message us on WhatsApp and our team will help you right away."

var ErrEmptyConversation = errors.New("conversation has no user message")

// Executor runs validated tool calls.
type Executor interface {
	Execute(ctx context.Context, call tools.Call) tools.Output
}

type Orchestrator struct {
	model  llm.Model
	tools  Executor
	system string
	defs   []tools.Definition
	cfg    config.AgentConfig
}

func New(model llm.Model, exec Executor, store *content.Store, cfg config.AgentConfig) *Orchestrator {
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = config.Default().Agent.MaxToolRounds
	}
	if cfg.MaxToolCallsPerStep <= 0 {
		cfg.MaxToolCallsPerStep = config.Default().Agent.MaxToolCallsPerStep
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = config.Default().Agent.TurnTimeout
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = config.Default().Agent.ToolTimeout
	}
	return &Orchestrator{
		model:  model,
		tools:  exec,
		system: SystemPrompt(store),
		defs:   tools.Definitions(),
		cfg:    cfg,
	}
}

type Request struct {
	SessionID string
	Messages  []Message
}

// Run executes one turn, streaming events to emit. It returns the final
// assistant message, or a *TurnError after emitting turn-failed.
func (o *Orchestrator) Run(ctx context.Context, req Request, emit Emitter) (*Message, error) {
	emit = serialize(emit)

	history := toTurns(req.Messages)
	if !hasUserTurn(history) {
		terr := &TurnError{Code: CodeUpstream, Cause: ErrEmptyConversation}
		emit(failed(terr))
		return nil, terr
	}

	turnCtx, cancel := context.WithTimeout(ctx, o.cfg.TurnTimeout)
	defer cancel()
	turnCtx = tools.WithSession(turnCtx, req.SessionID)

	reply := &Message{ID: uuid.NewString(), Role: RoleAssistant}

	for step := 0; ; step++ {
		allowTools := step < o.cfg.MaxToolRounds

		var text strings.Builder
		res, err := o.model.Step(turnCtx, llm.StepRequest{
			System:     o.system,
			History:    history,
			Tools:      o.defs,
			AllowTools: allowTools,
		}, func(delta string) {
			text.WriteString(delta)
			emit(Event{Type: EventTextDelta, Delta: delta})
		})
		if err != nil {
			terr := classify(ctx, turnCtx, err)
			logger.ErrorWithFields("agent step failed", logger.Fields{
				"session_id": req.SessionID,
				"step":       step,
				"code":       terr.Code,
				"error":      err.Error(),
			})
			emit(failed(terr))
			return nil, terr
		}

		// Adapters that don't stream still return the full text.
		if text.Len() == 0 && res.Text != "" {
			text.WriteString(res.Text)
			emit(Event{Type: EventTextDelta, Delta: res.Text})
		}
		if text.Len() > 0 {
			reply.Parts = append(reply.Parts, TextPart(text.String()))
		}

		calls := res.ToolCalls
		if !allowTools || len(calls) == 0 {
			break
		}

		modelTurn := llm.Turn{Role: llm.RoleModel}
		if text.Len() > 0 {
			modelTurn.Parts = append(modelTurn.Parts, llm.Part{Text: text.String()})
		}
		for i := range calls {
			modelTurn.Parts = append(modelTurn.Parts, llm.Part{Call: &calls[i]})
		}

		results := o.runRound(turnCtx, step+1, calls, req.Messages, reply, emit)
		resultTurn := llm.Turn{Role: llm.RoleUser}
		for i := range results {
			resultTurn.Parts = append(resultTurn.Parts, llm.Part{Result: &results[i]})
		}
		history = append(history, modelTurn, resultTurn)

		if err := turnCtx.Err(); err != nil {
			terr := classify(ctx, turnCtx, err)
			emit(failed(terr))
			return nil, terr
		}
	}

	if strings.TrimSpace(reply.Text()) == "" {
		reply.Parts = append(reply.Parts, TextPart(FallbackText))
		emit(Event{Type: EventTextDelta, Delta: FallbackText})
	}

	emit(Event{Type: EventTurnComplete, Message: reply})
	return reply, nil
}

// runRound executes one round of tool calls. Calls run concurrently, results
// come back in call order keyed by the model's invocation ids.
func (o *Orchestrator) runRound(ctx context.Context, round int, calls []llm.ToolCall, msgs []Message, reply *Message, emit Emitter) []llm.ToolResult {
	outputs := make([]tools.Output, len(calls))
	decoded := make([]tools.Call, len(calls))

	for i, c := range calls {
		emit(Event{Type: EventToolRequested, ToolCallID: c.ID, ToolName: c.Name, Input: c.Args, Round: round})
		reply.Parts = append(reply.Parts, Part{
			Type:       PartToolInvocation,
			ToolCallID: c.ID,
			ToolName:   c.Name,
			State:      StateInputAvailable,
			Input:      c.Args,
		})

		if i >= o.cfg.MaxToolCallsPerStep {
			outputs[i] = tools.Reject(ErrTooManyToolCalls.Error())
			continue
		}
		call, err := tools.Decode(tools.Name(c.Name), c.Args)
		if err != nil {
			outputs[i] = tools.Reject(err.Error())
			continue
		}
		if err := guard(call, msgs); err != nil {
			logger.WarnWithFields("tool call blocked", logger.Fields{"tool": c.Name, "reason": err.Error()})
			outputs[i] = tools.Reject(err.Error())
			continue
		}
		decoded[i] = call
	}

	var g errgroup.Group
	for i, call := range decoded {
		if call == nil {
			continue
		}
		emit(Event{Type: EventToolExecuting, ToolCallID: calls[i].ID, ToolName: calls[i].Name, Round: round})
		g.Go(func() error {
			toolCtx, cancel := context.WithTimeout(ctx, o.cfg.ToolTimeout)
			defer cancel()
			outputs[i] = o.tools.Execute(toolCtx, call)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]llm.ToolResult, len(calls))
	for i, c := range calls {
		raw, err := json.Marshal(outputs[i])
		if err != nil {
			raw, _ = json.Marshal(tools.Reject("tool output could not be encoded"))
		}
		ok := outputs[i].Succeeded()
		emit(Event{Type: EventToolResolved, ToolCallID: c.ID, ToolName: c.Name, Output: raw, Success: &ok, Round: round})

		if p := reply.ToolPart(c.ID); p != nil {
			p.State = StateOutputAvailable
			p.Output = raw
		}
		results[i] = llm.ToolResult{ID: c.ID, Name: c.Name, Output: raw}
	}
	return results
}

func failed(terr *TurnError) Event {
	msg := "The assistant is unavailable right now."
	if terr.Code == CodeTimeout {
		msg = "The assistant took too long to respond."
	}
	return Event{Type: EventTurnFailed, ErrorCode: terr.Code, Error: msg}
}

func hasUserTurn(turns []llm.Turn) bool {
	for _, t := range turns {
		if t.Role == llm.RoleUser {
			return true
		}
	}
	return false
}
