package llm

import (
	"encoding/json"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

func sampleHistory() []Turn {
	return []Turn{
		{Role: RoleUser, Parts: []Part{
			{Text: "How much is botox?"},
			{Image: &Blob{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
		}},
		{Role: RoleModel, Parts: []Part{
			{Text: "Let me check."},
			{Call: &ToolCall{ID: "c1", Name: "estimateCost", Args: json.RawMessage(`{"treatmentId":"botox"}`)}},
		}},
		{Role: RoleUser, Parts: []Part{
			{Result: &ToolResult{ID: "c1", Name: "estimateCost", Output: json.RawMessage(`{"found":true}`)}},
		}},
	}
}

func TestToGenaiContents(t *testing.T) {
	got := toGenaiContents(sampleHistory())
	require.Len(t, got, 3)

	assert.Equal(t, genai.RoleUser, got[0].Role)
	require.Len(t, got[0].Parts, 2)
	assert.Equal(t, "How much is botox?", got[0].Parts[0].Text)
	assert.Equal(t, "image/jpeg", got[0].Parts[1].InlineData.MIMEType)

	assert.Equal(t, genai.RoleModel, got[1].Role)
	call := got[1].Parts[1].FunctionCall
	require.NotNil(t, call)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, map[string]any{"treatmentId": "botox"}, call.Args)

	resp := got[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "estimateCost", resp.Name)
	assert.Equal(t, map[string]any{"found": true}, resp.Response)
}

func TestToOpenAIMessages(t *testing.T) {
	got := toOpenAIMessages("system prompt", sampleHistory())
	require.Len(t, got, 4)

	assert.Equal(t, openai.ChatMessageRoleSystem, got[0].Role)

	assert.Equal(t, openai.ChatMessageRoleUser, got[1].Role)
	require.Len(t, got[1].MultiContent, 2)
	assert.True(t, strings.HasPrefix(got[1].MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,"))

	assert.Equal(t, openai.ChatMessageRoleAssistant, got[2].Role)
	assert.Equal(t, "Let me check.", got[2].Content)
	require.Len(t, got[2].ToolCalls, 1)
	assert.Equal(t, `{"treatmentId":"botox"}`, got[2].ToolCalls[0].Function.Arguments)

	assert.Equal(t, openai.ChatMessageRoleTool, got[3].Role)
	assert.Equal(t, "c1", got[3].ToolCallID)
}

func TestGenaiSchema(t *testing.T) {
	s := GenaiSchema(tools.Define(tools.BookAppointment).Parameters)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"patientName", "phone", "treatment", "location"}, s.Required)
	loc := s.Properties["location"]
	require.NotNil(t, loc)
	assert.Equal(t, genai.TypeString, loc.Type)
	assert.Equal(t, "enum", loc.Format)
	assert.Len(t, loc.Enum, 3)
	assert.Equal(t, int64(10), *s.Properties["phone"].MinLength)
}
