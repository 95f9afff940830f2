package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/llm"
	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// scriptedModel replays one step function per call and records requests.
type scriptedModel struct {
	mu    sync.Mutex
	steps []func(ctx context.Context, req llm.StepRequest, onText func(string)) (*llm.StepResult, error)
	reqs  []llm.StepRequest
}

func (m *scriptedModel) Step(ctx context.Context, req llm.StepRequest, onText func(string)) (*llm.StepResult, error) {
	m.mu.Lock()
	i := len(m.reqs)
	m.reqs = append(m.reqs, req)
	step := m.steps[len(m.steps)-1]
	if i < len(m.steps) {
		step = m.steps[i]
	}
	m.mu.Unlock()
	return step(ctx, req, onText)
}

func say(text string) func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error) {
	return func(_ context.Context, _ llm.StepRequest, onText func(string)) (*llm.StepResult, error) {
		onText(text)
		return &llm.StepResult{Text: text}, nil
	}
}

func callTools(calls ...llm.ToolCall) func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error) {
	return func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error) {
		return &llm.StepResult{ToolCalls: calls}, nil
	}
}

func call(id string, name tools.Name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: string(name), Args: json.RawMessage(args)}
}

type recordingOutbox struct {
	mu      sync.Mutex
	entries []outbox.Entry
}

func (r *recordingOutbox) Dispatch(_ context.Context, e outbox.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingOutbox) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type collector struct {
	events []Event
}

func (c *collector) emit(e Event) { c.events = append(c.events, e) }

func (c *collector) ofType(t EventType) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() config.AgentConfig {
	return config.AgentConfig{
		MaxToolRounds:       3,
		MaxToolCallsPerStep: 2,
		TurnTimeout:         2 * time.Second,
		ToolTimeout:         time.Second,
	}
}

func newTestOrchestrator(model llm.Model, cfg config.AgentConfig) (*Orchestrator, *recordingOutbox) {
	ob := &recordingOutbox{}
	store := content.NewStore()
	return New(model, tools.NewRegistry(store, ob), store, cfg), ob
}

func userSays(texts ...string) []Message {
	msgs := []Message{{ID: WelcomeMessageID, Role: RoleAssistant, Parts: []Part{TextPart("Hi! I'm Vera.")}}}
	for _, t := range texts {
		msgs = append(msgs, Message{Role: RoleUser, Parts: []Part{TextPart(t)}})
	}
	return msgs
}

func resolvedOutput(t *testing.T, e Event) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(e.Output, &m))
	return m
}

func TestRun_PlainAnswer(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		say("We are open 10 AM to 8 PM."),
	}}
	o, _ := newTestOrchestrator(model, testConfig())
	c := &collector{}

	reply, err := o.Run(context.Background(), Request{SessionID: "s1", Messages: userSays("When are you open?")}, c.emit)
	require.NoError(t, err)

	assert.Equal(t, "We are open 10 AM to 8 PM.", reply.Text())
	require.Len(t, c.events, 2)
	assert.Equal(t, EventTextDelta, c.events[0].Type)
	assert.Equal(t, EventTurnComplete, c.events[1].Type)

	require.Len(t, model.reqs, 1)
	assert.True(t, model.reqs[0].AllowTools)
	// welcome message never reaches the model
	require.Len(t, model.reqs[0].History, 1)
	assert.Equal(t, llm.RoleUser, model.reqs[0].History[0].Role)
}

func TestRun_ToolRoundCap(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(call("c", tools.SearchTreatments, `{"query":"acne"}`)),
	}}
	o, _ := newTestOrchestrator(model, testConfig())
	c := &collector{}

	reply, err := o.Run(context.Background(), Request{Messages: userSays("acne?")}, c.emit)
	require.NoError(t, err)

	require.Len(t, model.reqs, 4)
	for i := 0; i < 3; i++ {
		assert.True(t, model.reqs[i].AllowTools, "step %d", i)
	}
	assert.False(t, model.reqs[3].AllowTools)

	assert.Len(t, c.ofType(EventToolResolved), 3)
	assert.Equal(t, FallbackText, reply.Text())
	last := c.events[len(c.events)-1]
	assert.Equal(t, EventTurnComplete, last.Type)
	assert.Equal(t, reply, last.Message)
}

func TestRun_AcneQuestionNeverBooks(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(
			call("s", tools.SearchTreatments, `{"query":"acne"}`),
			call("b", tools.BookAppointment, `{"patientName":"Ravi Kumar","phone":"9876543210","treatment":"Acne Treatment","location":"Gachibowli"}`),
		),
		say("Here are our acne treatments."),
	}}
	o, ob := newTestOrchestrator(model, testConfig())
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays("What treatments do you have for acne?")}, c.emit)
	require.NoError(t, err)

	resolved := c.ofType(EventToolResolved)
	require.Len(t, resolved, 2)
	assert.True(t, *resolved[0].Success)
	assert.False(t, *resolved[1].Success)
	assert.Equal(t, ErrPhoneNotFromUser.Error(), resolvedOutput(t, resolved[1])["error"])
	assert.Zero(t, ob.count())
}

func TestRun_BookingWithUserDetails(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(call("b", tools.BookAppointment, `{"patientName":"Ravi Kumar","phone":"+91 98765 43210","treatment":"Hair Transplant","location":"Gachibowli"}`)),
		say("Booked!"),
	}}
	o, ob := newTestOrchestrator(model, testConfig())
	c := &collector{}

	msgs := userSays("I'd like a hair transplant consult at Gachibowli", "ravi kumar, 98765-43210")
	_, err := o.Run(context.Background(), Request{SessionID: "sess-9", Messages: msgs}, c.emit)
	require.NoError(t, err)

	resolved := c.ofType(EventToolResolved)
	require.Len(t, resolved, 1)
	assert.True(t, *resolved[0].Success)
	require.Equal(t, 1, ob.count())
	assert.Equal(t, "sess-9", ob.entries[0].SessionID)
}

func TestRun_InvalidBookingDetailsGetCorrectiveMessage(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(call("b", tools.BookAppointment, `{"patientName":"A","phone":"12345","treatment":"Botox","location":"Banjara Hills"}`)),
		say("Could you share your full name and a 10 digit number?"),
	}}
	o, ob := newTestOrchestrator(model, testConfig())
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays("book botox, A 12345")}, c.emit)
	require.NoError(t, err)

	out := resolvedOutput(t, c.ofType(EventToolResolved)[0])
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["message"], "phone")
	assert.Zero(t, ob.count())
}

func TestRun_WhatsAppOnlyOnRequest(t *testing.T) {
	tests := []struct {
		name   string
		latest string
		want   bool
	}{
		{"not requested", "thanks, that helps", false},
		{"asked for whatsapp", "Can I chat with you on WhatsApp?", true},
		{"asked for a human", "I want to talk to a real person", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
				callTools(call("w", tools.GenerateWhatsAppLink, `{"summary":"Botox enquiry"}`)),
				say("ok"),
			}}
			o, _ := newTestOrchestrator(model, testConfig())
			c := &collector{}

			_, err := o.Run(context.Background(), Request{Messages: userSays("botox price?", tt.latest)}, c.emit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *c.ofType(EventToolResolved)[0].Success)
		})
	}
}

func TestRun_ExtraCallsInOneStepRejected(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(
			call("1", tools.SearchTreatments, `{"query":"acne"}`),
			call("2", tools.EstimateCost, `{"treatmentId":"botox"}`),
			call("3", tools.GetClinicInfo, `{"query":"hours"}`),
		),
		say("done"),
	}}
	o, _ := newTestOrchestrator(model, testConfig())
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays("tell me everything")}, c.emit)
	require.NoError(t, err)

	assert.Len(t, c.ofType(EventToolExecuting), 2)
	resolved := c.ofType(EventToolResolved)
	require.Len(t, resolved, 3)
	assert.Equal(t, "3", resolved[2].ToolCallID)
	assert.False(t, *resolved[2].Success)
}

func TestRun_SchemaFailureDoesNotAbortTurn(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(call("x", tools.EstimateCost, `{}`)),
		callTools(call("y", tools.EstimateCost, `{"treatmentId":"botox"}`)),
		say("Botox starts at ₹8,000 per area."),
	}}
	o, _ := newTestOrchestrator(model, testConfig())
	c := &collector{}

	reply, err := o.Run(context.Background(), Request{Messages: userSays("botox cost")}, c.emit)
	require.NoError(t, err)

	resolved := c.ofType(EventToolResolved)
	require.Len(t, resolved, 2)
	assert.False(t, *resolved[0].Success)
	assert.True(t, *resolved[1].Success)
	assert.Equal(t, 2, resolved[1].Round)
	assert.Contains(t, reply.Text(), "₹8,000")

	// the second step saw the rejection keyed to its call
	hist := model.reqs[1].History
	res := hist[len(hist)-1].Parts[0].Result
	require.NotNil(t, res)
	assert.Equal(t, "x", res.ID)
}

type slowExecutor struct {
	delays map[tools.Name]time.Duration
	inner  Executor
}

func (s slowExecutor) Execute(ctx context.Context, c tools.Call) tools.Output {
	time.Sleep(s.delays[c.Tool()])
	return s.inner.Execute(ctx, c)
}

func TestRun_ResultsMappedToInvocationIDs(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		callTools(
			call("slow", tools.EstimateCost, `{"treatmentId":"botox"}`),
			call("fast", tools.GetClinicInfo, `{"query":"hours"}`),
		),
		say("ok"),
	}}
	store := content.NewStore()
	exec := slowExecutor{
		delays: map[tools.Name]time.Duration{tools.EstimateCost: 30 * time.Millisecond},
		inner:  tools.NewRegistry(store, &recordingOutbox{}),
	}
	o := New(model, exec, store, testConfig())
	c := &collector{}

	reply, err := o.Run(context.Background(), Request{Messages: userSays("botox price and hours")}, c.emit)
	require.NoError(t, err)

	slow := reply.ToolPart("slow")
	fast := reply.ToolPart("fast")
	require.NotNil(t, slow)
	require.NotNil(t, fast)
	assert.Equal(t, StateOutputAvailable, slow.State)
	assert.Contains(t, string(slow.Output), "priceRange")
	assert.Contains(t, string(fast.Output), "hours")

	results := model.reqs[1].History[len(model.reqs[1].History)-1].Parts
	require.Len(t, results, 2)
	assert.Equal(t, "slow", results[0].Result.ID)
	assert.Equal(t, "fast", results[1].Result.ID)
}

func TestRun_Timeout(t *testing.T) {
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		func(ctx context.Context, _ llm.StepRequest, _ func(string)) (*llm.StepResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}}
	cfg := testConfig()
	cfg.TurnTimeout = 20 * time.Millisecond
	o, _ := newTestOrchestrator(model, cfg)
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays("hello")}, c.emit)

	var terr *TurnError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeTimeout, terr.Code)
	last := c.events[len(c.events)-1]
	assert.Equal(t, EventTurnFailed, last.Type)
	assert.Equal(t, CodeTimeout, last.ErrorCode)
}

func TestRun_UpstreamFailure(t *testing.T) {
	boom := errors.New("503 from provider")
	model := &scriptedModel{steps: []func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error){
		func(context.Context, llm.StepRequest, func(string)) (*llm.StepResult, error) { return nil, boom },
	}}
	o, _ := newTestOrchestrator(model, testConfig())
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays("hello")}, c.emit)

	assert.ErrorIs(t, err, boom)
	require.Len(t, c.events, 1)
	assert.Equal(t, EventTurnFailed, c.events[0].Type)
	assert.Equal(t, CodeUpstream, c.events[0].ErrorCode)
	assert.True(t, c.events[0].Terminal())
}

func TestRun_EmptyConversation(t *testing.T) {
	o, _ := newTestOrchestrator(&scriptedModel{}, testConfig())
	c := &collector{}

	_, err := o.Run(context.Background(), Request{Messages: userSays()}, c.emit)
	assert.ErrorIs(t, err, ErrEmptyConversation)
	require.Len(t, c.events, 1)
	assert.Equal(t, EventTurnFailed, c.events[0].Type)
}

func TestToTurns(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	msgs := []Message{
		{ID: WelcomeMessageID, Role: RoleAssistant, Parts: []Part{TextPart("welcome")}},
		{Role: RoleUser, Parts: []Part{
			TextPart("is this acne?"),
			{Type: PartFile, MediaType: "image/jpeg", URL: media.EncodeDataURI("image/jpeg", jpeg)},
			{Type: PartFile, MediaType: "image/png", URL: "https://example.com/x.png"},
		}},
		{Role: RoleAssistant, Parts: []Part{
			TextPart("Let me look."),
			{Type: PartToolInvocation, ToolCallID: "t1", ToolName: "searchTreatments", State: StateOutputAvailable,
				Input: json.RawMessage(`{"query":"acne"}`), Output: json.RawMessage(`{"found":true}`)},
			{Type: PartToolInvocation, ToolCallID: "t2", ToolName: "estimateCost", State: StateInputAvailable},
			TextPart("Here you go."),
		}},
	}

	turns := toTurns(msgs)
	require.Len(t, turns, 4)

	assert.Equal(t, llm.RoleUser, turns[0].Role)
	require.Len(t, turns[0].Parts, 2)
	assert.Equal(t, "image/jpeg", turns[0].Parts[1].Image.MIMEType)

	assert.Equal(t, llm.RoleModel, turns[1].Role)
	assert.Equal(t, "Let me look.", turns[1].Parts[0].Text)
	assert.Equal(t, "t1", turns[1].Parts[1].Call.ID)

	assert.Equal(t, "t1", turns[2].Parts[0].Result.ID)

	assert.Equal(t, llm.RoleModel, turns[3].Role)
	assert.Equal(t, "Here you go.", turns[3].Parts[0].Text)
}

func TestRecentHistory(t *testing.T) {
	msg := func(id string, role Role) Message {
		return Message{ID: id, Role: role, Parts: []Part{TextPart(id)}}
	}
	msgs := []Message{
		msg(WelcomeMessageID, RoleAssistant),
		msg("u1", RoleUser),
		msg("a1", RoleAssistant),
		msg("u2", RoleUser),
		msg("a2", RoleAssistant),
		msg("u3", RoleUser),
	}
	ids := func(ms []Message) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"under limit", 10, []string{WelcomeMessageID, "u1", "a1", "u2", "a2", "u3"}},
		{"starts at user", 4, []string{"u2", "a2", "u3"}},
		{"exact user boundary", 3, []string{"u2", "a2", "u3"}},
		{"only latest", 1, []string{"u3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(RecentHistory(msgs, tt.limit)))
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	store := content.NewStore()
	p := SystemPrompt(store)

	for _, want := range []string{"bookAppointment", "generateWhatsAppLink", "108", "112", content.EmergencyPhone, "Never diagnose"} {
		assert.Contains(t, p, want)
	}
	for _, d := range store.Doctors() {
		assert.Contains(t, p, d.Name)
	}
	for _, l := range store.Locations() {
		assert.Contains(t, p, l.Name)
	}
	assert.Contains(t, p, "Treatments offered: 12")
	assert.False(t, strings.Contains(p, "%!"), "unformatted verb in prompt")
}

func TestCheckBooking(t *testing.T) {
	in := tools.BookAppointmentInput{PatientName: "Priya Sharma", Phone: "+91-99887-76655", Location: "Jubilee Hills"}

	assert.NoError(t, checkBooking(in, []string{"I'm priya sharma", "my number is 9988776655"}))
	assert.ErrorIs(t, checkBooking(in, []string{"I'm priya sharma"}), ErrPhoneNotFromUser)
	assert.ErrorIs(t, checkBooking(in, []string{"call 99887 76655"}), ErrNameNotFromUser)
}
