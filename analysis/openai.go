package analysis

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
)

// OpenAIAnalyzer uses a vision-capable chat model in JSON mode.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAnalyzer{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAIAnalyzer) Analyze(ctx context.Context, image []byte, mediaType string) (*Report, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: SYSTEM_INSTRUCTION + "\nRespond with a JSON object with the keys overallScore, summary, strengths, " +
					"concerns, skinType, hairAnalysis, personalizedMessage, recommendedTreatments and unreadable.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Analyze this photo."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    media.EncodeDataURI(mediaType, image),
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("analysis model returned no choices")
	}
	return parseReport(resp.Choices[0].Message.Content)
}
