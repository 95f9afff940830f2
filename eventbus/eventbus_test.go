package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func TestNewJSONEvent(t *testing.T) {
	evt, err := NewJSONEvent("", "booking.received", payload{Name: "Ravi", Phone: "9876543210"})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "booking.received", evt.Type)
	assert.JSONEq(t, `{"name":"Ravi","phone":"9876543210"}`, string(evt.Payload))

	got, err := DecodeJSON[payload](evt)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
}

func TestNewJSONEvent_KeepsID(t *testing.T) {
	evt, err := NewJSONEvent("abc", "callback.requested", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "abc", evt.ID)
}

func TestNewJSONEvent_UnencodablePayload(t *testing.T) {
	_, err := NewJSONEvent("", "x", make(chan int))
	assert.Error(t, err)
}
