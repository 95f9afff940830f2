package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// OpenAI streams chat completions with function tools.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAI(apiKey, model string, temperature float32) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model, temperature: temperature}
}

func (o *OpenAI) Step(ctx context.Context, req StepRequest, onText func(string)) (*StepResult, error) {
	if o.client == nil {
		return nil, errors.New("openai client not initialized")
	}

	creq := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    toOpenAIMessages(req.System, req.History),
		Temperature: o.temperature,
		Stream:      true,
	}
	if len(req.Tools) > 0 {
		creq.Tools = openAITools(req.Tools)
		if !req.AllowTools {
			creq.ToolChoice = "none"
		}
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, creq)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	type pending struct {
		id, name string
		args     strings.Builder
	}
	calls := map[int]*pending{}
	var text strings.Builder

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			text.WriteString(delta.Content)
			if onText != nil {
				onText(delta.Content)
			}
		}
		for i, tc := range delta.ToolCalls {
			idx := i
			if tc.Index != nil {
				idx = *tc.Index
			}
			p, ok := calls[idx]
			if !ok {
				p = &pending{}
				calls[idx] = p
			}
			if tc.ID != "" {
				p.id = tc.ID
			}
			if tc.Function.Name != "" {
				p.name = tc.Function.Name
			}
			p.args.WriteString(tc.Function.Arguments)
		}
	}

	out := &StepResult{Text: text.String()}
	idxs := make([]int, 0, len(calls))
	for i := range calls {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		p := calls[i]
		id := p.id
		if id == "" {
			id = uuid.NewString()
		}
		args := p.args.String()
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{ID: id, Name: p.name, Args: []byte(args)})
	}
	return out, nil
}

func toOpenAIMessages(system string, history []Turn) []openai.ChatCompletionMessage {
	msgs := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	for _, t := range history {
		if t.Role == RoleModel {
			m := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
			for _, p := range t.Parts {
				switch {
				case p.Call != nil:
					m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
						ID:   p.Call.ID,
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      p.Call.Name,
							Arguments: string(p.Call.Args),
						},
					})
				case p.Text != "":
					m.Content += p.Text
				}
			}
			msgs = append(msgs, m)
			continue
		}

		// tool results travel as role=tool messages, one per call
		var parts []openai.ChatMessagePart
		for _, p := range t.Parts {
			switch {
			case p.Result != nil:
				msgs = append(msgs, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					Content:    string(p.Result.Output),
					ToolCallID: p.Result.ID,
				})
			case p.Image != nil:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    "data:" + p.Image.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Image.Data),
						Detail: openai.ImageURLDetailAuto,
					},
				})
			case p.Text != "":
				parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: p.Text})
			}
		}
		switch {
		case len(parts) == 1 && parts[0].Type == openai.ChatMessagePartTypeText:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: parts[0].Text})
		case len(parts) > 0:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts})
		}
	}
	return msgs
}

func openAITools(defs []tools.Definition) []openai.Tool {
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(d.Name),
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return out
}
