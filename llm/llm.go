// Package llm is the provider-neutral boundary to the hosted language model.
// One Step is one model call: it streams text through onText and returns the
// full text plus any tool calls the model asked for.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Blob struct {
	MIMEType string
	Data     []byte
}

type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type ToolResult struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Output json.RawMessage `json:"output"`
}

// Part holds exactly one of its fields.
type Part struct {
	Text   string
	Image  *Blob
	Call   *ToolCall
	Result *ToolResult
}

type Turn struct {
	Role  Role
	Parts []Part
}

type StepRequest struct {
	System  string
	History []Turn
	Tools   []tools.Definition
	// AllowTools=false keeps the declarations but forbids calling them, which
	// forces a text answer.
	AllowTools bool
}

type StepResult struct {
	Text      string
	ToolCalls []ToolCall
}

type Model interface {
	Step(ctx context.Context, req StepRequest, onText func(string)) (*StepResult, error)
}

// New builds the model selected by llm.provider.
func New(ctx context.Context, cfg config.AppConfig) (Model, error) {
	switch cfg.LLM.Provider {
	case "", "google":
		if cfg.Secrets.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
		return NewGemini(ctx, cfg.Secrets.GeminiAPIKey, cfg.LLM.ChatModel, cfg.LLM.Temperature)
	case "openai":
		if cfg.Secrets.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAI(cfg.Secrets.OpenAIAPIKey, cfg.LLM.ChatModel, cfg.LLM.Temperature), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
}
