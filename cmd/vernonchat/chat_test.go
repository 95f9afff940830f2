package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

type chatServer struct {
	mu      sync.Mutex
	bodies  []map[string]any
	replies []string
}

func (s *chatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	n := len(s.bodies)
	s.bodies = append(s.bodies, body)
	text := s.replies[min(n, len(s.replies)-1)]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	final := agent.Message{ID: fmt.Sprintf("a%d", n), Role: agent.RoleAssistant, Parts: []agent.Part{agent.TextPart(text)}}
	for _, e := range []agent.Event{
		{Type: agent.EventTextDelta, Delta: text},
		{Type: agent.EventTurnComplete, Message: &final},
	} {
		b, _ := json.Marshal(e)
		fmt.Fprintf(w, "event:%s\ndata:%s\n\n", e.Type, b)
	}
}

func runChat(t *testing.T, srv *httptest.Server, stateFile, input string) string {
	t.Helper()
	cmd := NewChatCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--api-url", srv.URL, "--state-file", stateFile})
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestChatCommand(t *testing.T) {
	cs := &chatServer{replies: []string{
		"Our Gachibowli branch is open Mon-Sun 11 AM to 9 PM.",
		"We are open every day at Gachibowli.",
	}}
	srv := httptest.NewServer(cs)
	defer srv.Close()
	stateFile := filepath.Join(t.TempDir(), "state.json")

	out := runChat(t, srv, stateFile, "What are your timings?\n1\n/quit\n")

	assert.Contains(t, out, "Vera: Hi! I'm Vera")
	assert.Contains(t, out, proactiveTip)
	assert.Contains(t, out, "Vera: Our Gachibowli branch is open")
	assert.Contains(t, out, "1) What are your clinic timings?")
	assert.Contains(t, out, "You: What are your clinic timings?")

	require.Len(t, cs.bodies, 2)
	first, second := cs.bodies[0], cs.bodies[1]
	assert.Equal(t, first["sessionId"], second["sessionId"])
	assert.Len(t, second["messages"], 4)

	// 두 번째 실행: 같은 세션, 안내 문구는 다시 나오지 않는다.
	out = runChat(t, srv, stateFile, "/quit\n")
	assert.NotContains(t, out, proactiveTip)
}

func TestBookingLocation(t *testing.T) {
	assert.Equal(t, booking.JubileeHills, bookingLocation("jubilee-hills"))
	assert.Equal(t, booking.Location("Mumbai"), bookingLocation("Mumbai"))
}

func TestBookCommandValidatesLocally(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	cmd := NewBookCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--api-url", srv.URL, "--state-file", filepath.Join(t.TempDir(), "s.json"),
		"--name", "Ravi Kumar", "--phone", "12345", "--location", "Gachibowli",
	})
	err := cmd.Execute()
	assert.ErrorIs(t, err, booking.ErrInvalidPhone)
	assert.Zero(t, hits)
}

func TestChatShowsBookingCard(t *testing.T) {
	details := booking.Request{PatientName: "Ravi Kumar", Phone: "9876543210", Treatment: "Hair Transplant", Location: booking.Gachibowli}.Details()
	output, _ := json.Marshal(tools.BookAppointmentOutput{Success: true, Message: "Booked", BookingDetails: &details})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		msg := agent.Message{ID: "a1", Role: agent.RoleAssistant, Parts: []agent.Part{
			{Type: agent.PartToolInvocation, ToolCallID: "c1", ToolName: string(tools.BookAppointment), State: agent.StateOutputAvailable, Output: output},
			agent.TextPart("Done! Our team will call you."),
		}}
		b, _ := json.Marshal(agent.Event{Type: agent.EventTurnComplete, Message: &msg})
		fmt.Fprintf(w, "event:turn-complete\ndata:%s\n\n", b)
	}))
	defer srv.Close()

	out := runChat(t, srv, filepath.Join(t.TempDir(), "state.json"),
		"Book a hair transplant consultation at Gachibowli, I'm Ravi Kumar, 9876543210\n/quit\n")
	assert.Contains(t, out, "Booking received: Ravi Kumar, Hair Transplant at Gachibowli")
	assert.Contains(t, out, "How should I prepare for my visit?")
}
