package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGemini(ctx context.Context, apiKey, model string, temperature float32) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model, temperature: temperature}, nil
}

func (g *Gemini) Step(ctx context.Context, req StepRequest, onText func(string)) (*StepResult, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       genai.Ptr(g.temperature),
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations(req.Tools)}}
		mode := genai.FunctionCallingConfigModeAuto
		if !req.AllowTools {
			mode = genai.FunctionCallingConfigModeNone
		}
		cfg.ToolConfig = &genai.ToolConfig{FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode}}
	}

	var text strings.Builder
	out := &StepResult{}
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, toGenaiContents(req.History), cfg) {
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, p := range resp.Candidates[0].Content.Parts {
			switch {
			case p.FunctionCall != nil:
				args, err := json.Marshal(p.FunctionCall.Args)
				if err != nil {
					args = []byte("{}")
				}
				id := p.FunctionCall.ID
				if id == "" {
					id = uuid.NewString()
				}
				out.ToolCalls = append(out.ToolCalls, ToolCall{ID: id, Name: p.FunctionCall.Name, Args: args})
			case p.Text != "" && !p.Thought:
				text.WriteString(p.Text)
				if onText != nil {
					onText(p.Text)
				}
			}
		}
	}
	out.Text = text.String()
	return out, nil
}

func toGenaiContents(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		c := &genai.Content{Role: role}
		for _, p := range t.Parts {
			switch {
			case p.Call != nil:
				var args map[string]any
				_ = json.Unmarshal(p.Call.Args, &args)
				c.Parts = append(c.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID: p.Call.ID, Name: p.Call.Name, Args: args,
				}})
			case p.Result != nil:
				var resp map[string]any
				if err := json.Unmarshal(p.Result.Output, &resp); err != nil {
					resp = map[string]any{"output": string(p.Result.Output)}
				}
				c.Parts = append(c.Parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID: p.Result.ID, Name: p.Result.Name, Response: resp,
				}})
			case p.Image != nil:
				c.Parts = append(c.Parts, &genai.Part{InlineData: &genai.Blob{
					MIMEType: p.Image.MIMEType, Data: p.Image.Data,
				}})
			case p.Text != "":
				c.Parts = append(c.Parts, &genai.Part{Text: p.Text})
			}
		}
		if len(c.Parts) > 0 {
			contents = append(contents, c)
		}
	}
	return contents
}

func functionDeclarations(defs []tools.Definition) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		out = append(out, &genai.FunctionDeclaration{
			Name:        string(d.Name),
			Description: d.Description,
			Parameters:  GenaiSchema(d.Parameters),
		})
	}
	return out
}

var genaiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
}

// GenaiSchema converts a tool schema to the Gemini schema type.
func GenaiSchema(s *tools.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		MinLength:   s.MinLength,
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = GenaiSchema(v)
		}
	}
	return out
}
