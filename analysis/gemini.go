package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const SYSTEM_INSTRUCTION = `
You are a cosmetic skin and hair assessment assistant for a dermatology clinic. You look at ONE photo and describe what is visible.
Rules:
1. Never diagnose a disease and never name a prescription medicine. Describe visible concerns in plain language.
2. overallScore is 0-100 where 100 means healthy, even, well-hydrated skin (or a full, healthy scalp for hair photos).
3. concerns lists visible concerns, each with severity "mild", "moderate" or "severe", the facial or scalp area, and a one-sentence description.
4. strengths lists 1-3 positive observations.
5. For scalp or hair photos fill hairAnalysis; otherwise omit it. For face photos fill skinType (oily, dry, combination, normal or sensitive).
6. recommendedTreatments may only use these clinic treatments: Acne Treatment, Acne Scar Treatment, Chemical Peel, HydraFacial, Pigmentation Treatment, Laser Hair Reduction, Botox, Dermal Fillers, HIFU, Hair Transplant, PRP Hair Therapy, Body Contouring.
7. personalizedMessage is a short, warm note that encourages an in-person consultation.
8. If the photo is not of skin or hair, or is too blurred or dark to assess, set unreadable to true and leave the other fields empty.
`

// GeminiAnalyzer calls a Gemini vision model with a JSON response schema.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, mediaType string) (*Report, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mediaType, Data: image}},
			{Text: "Analyze this photo."},
		},
	}}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		Temperature:       genai.Ptr[float32](0.2),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    reportSchema(),
	})
	if err != nil {
		return nil, err
	}
	return parseReport(result.Text())
}

type rawReport struct {
	Report
	Unreadable bool `json:"unreadable"`
}

// parseReport accepts the model's JSON, tolerating a markdown fence.
func parseReport(text string) (*Report, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw rawReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("parse analysis report: %w", err)
	}
	r := raw.Report
	r.Unreadable = raw.Unreadable
	return &r, nil
}

func reportSchema() *genai.Schema {
	str := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
	strs := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallScore": {Type: genai.TypeInteger, Minimum: genai.Ptr(0.0), Maximum: genai.Ptr(100.0)},
			"summary":      str("two sentence overview"),
			"strengths":    strs("positive observations"),
			"concerns": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        str("concern"),
						"severity":    {Type: genai.TypeString, Format: "enum", Enum: []string{"mild", "moderate", "severe"}},
						"area":        str("face or scalp area"),
						"description": str("one sentence"),
					},
					Required: []string{"name", "severity", "area", "description"},
				},
			},
			"skinType": str("oily, dry, combination, normal or sensitive"),
			"hairAnalysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"hairType":       str(""),
					"scalpCondition": str(""),
					"hairDensity":    str(""),
					"hairLossStage":  str(""),
				},
			},
			"personalizedMessage":   str("short encouraging note"),
			"recommendedTreatments": strs("clinic treatment names"),
			"unreadable":            {Type: genai.TypeBoolean},
		},
		Required: []string{"overallScore", "summary", "strengths", "concerns", "unreadable"},
	}
}
