package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepare_MasksLeadContact(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	in := Fields{"phone": "+91 98765 43210", "name": " Ravi Kumar", "patient_name": "Priya", "location": "Gachibowli"}

	got := prepare(in)

	assert.Equal(t, "********3210", got["phone"])
	assert.Equal(t, "R***", got["name"])
	assert.Equal(t, "P***", got["patient_name"])
	assert.Equal(t, "Gachibowli", got["location"])
	assert.Equal(t, DefaultServiceName, got["service_name"])
	assert.Equal(t, "+91 98765 43210", in["phone"], "caller fields are not modified")
}

func TestPrepare_ServiceName(t *testing.T) {
	t.Setenv("SERVICE_NAME", "vernon-leadworker")

	assert.Equal(t, "vernon-leadworker", prepare(nil)["service_name"])
	assert.Equal(t, "api", prepare(Fields{"service_name": "api"})["service_name"])
}

func TestMask(t *testing.T) {
	testCases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"short phone", maskPhone, "123", "***"},
		{"formatted phone", maskPhone, "98765-43210", "******3210"},
		{"empty name", maskName, "  ", ""},
		{"unicode name", maskName, "Érica", "É***"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn(tc.in))
		})
	}
}

func TestWithFields_NonSlogLogger(t *testing.T) {
	prev := Log
	rec := &lineRecorder{}
	Log = rec
	t.Cleanup(func() { Log = prev })

	InfoWithFields("booking form accepted", Fields{"phone": "9876543210"})
	WarnWithFields("retry", nil)
	ErrorWithFields("failed", nil)
	DebugWithFields("debug", nil)

	assert.Equal(t, []string{"info:booking form accepted", "warn:retry", "error:failed", "debug:debug"}, rec.lines)
}

type lineRecorder struct {
	lines []string
}

func (r *lineRecorder) add(level string, args ...any) {
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			r.lines = append(r.lines, level+":"+s)
		}
	}
}

func (r *lineRecorder) Debug(args ...any) { r.add("debug", args...) }
func (r *lineRecorder) Info(args ...any) { r.add("info", args...) }
func (r *lineRecorder) Warn(args ...any) { r.add("warn", args...) }
func (r *lineRecorder) Error(args ...any) { r.add("error", args...) }
func (r *lineRecorder) Debugf(string, ...any) {}
func (r *lineRecorder) Infof(string, ...any) {}
func (r *lineRecorder) Warnf(string, ...any) {}
func (r *lineRecorder) Errorf(string, ...any) {}
func (r *lineRecorder) Fatalf(string, ...any) {}
