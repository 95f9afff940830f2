package eventbus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RetryDelays 는 n 번째 재시도(1부터)가 기다리는 시간이다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

var ErrMaxRetryExceeded = errors.New("max retry exceeded")

// Topic names a base topic and its retry and dead-letter siblings:
// "<base>.retry.<n>" and "<base>.dlq".
type Topic struct {
	base string
}

func NewTopic(base string) Topic { return Topic{base: base} }

func (t Topic) Base() string { return t.base }

func (t Topic) DLQ() string { return t.base + ".dlq" }

// RetryTopic returns the topic that holds the n-th retry.
func (t Topic) RetryTopic(n int) (string, error) {
	if n <= 0 || n > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return fmt.Sprintf("%s.retry.%d", t.base, n), nil
}

func (t Topic) RetryTopics() []string {
	out := make([]string, len(RetryDelays))
	for i := range RetryDelays {
		out[i] = fmt.Sprintf("%s.retry.%d", t.base, i+1)
	}
	return out
}

// All lists the base, retry and dead-letter topics, for EnsureTopic at startup.
func (t Topic) All() []string {
	return append(append([]string{t.base}, t.RetryTopics()...), t.DLQ())
}

// ParseRetryDelay reads the delay out of a "<base>.retry.<n>" topic name.
func ParseRetryDelay(name string) (time.Duration, bool) {
	idx := strings.LastIndex(name, ".retry.")
	if idx == -1 {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+len(".retry."):])
	if err != nil || n <= 0 || n > len(RetryDelays) {
		return 0, false
	}
	return RetryDelays[n-1], true
}

// nextHop decides where a failed event goes: the next retry topic, or the
// dead-letter topic once MaxRetry attempts are used up. The returned event
// carries the bumped retry count and the handler error.
func nextHop(t Topic, evt Event, handlerErr error) (string, Event) {
	evt.LastError = handlerErr.Error()
	limit := evt.MaxRetry
	if limit <= 0 || limit > len(RetryDelays) {
		limit = len(RetryDelays)
	}
	if evt.Retry >= limit {
		return t.DLQ(), evt
	}
	evt.Retry++
	topic, _ := t.RetryTopic(evt.Retry)
	return topic, evt
}

// readyAt is when a message sitting on a retry topic may be re-injected.
func readyAt(topic string, produced time.Time) (time.Time, bool) {
	d, ok := ParseRetryDelay(topic)
	if !ok {
		return time.Time{}, false
	}
	return produced.Add(d), true
}
