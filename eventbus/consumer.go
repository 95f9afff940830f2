package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

const pollTimeout = 100 * time.Millisecond

// KafkaConsumer reads a base topic with manual commits. Failed events are
// re-published through Publisher onto the retry and dead-letter topics.
type KafkaConsumer struct {
	Brokers   string
	GroupID   string
	Publisher Publisher
}

func (k *KafkaConsumer) newConsumer(groupID string) (*kafka.Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return c, nil
}

// messageReader is the part of *kafka.Consumer the consume loops use.
type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Seek(partition kafka.TopicPartition, ignoredTimeoutMs int) error
}

// redeliverBackoff is how long a loop waits before re-reading a message it
// could not hand off.
var redeliverBackoff = time.Second

// Subscribe runs handler for every event on topic.Base() until ctx is done.
func (k *KafkaConsumer) Subscribe(ctx context.Context, topic Topic, handler Handler) error {
	c, err := k.newConsumer(k.GroupID)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic.Base(), err)
	}
	logger.InfoWithFields("consumer started", logger.Fields{"group": k.GroupID, "topic": topic.Base()})
	return k.consume(ctx, c, topic, handler)
}

func (k *KafkaConsumer) consume(ctx context.Context, c messageReader, topic Topic, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("consumer stopping")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(pollTimeout)
		if err != nil {
			if fatal := readError(err); fatal != nil {
				return fatal
			}
			continue
		}

		if !k.process(ctx, topic, msg.Value, handler) {
			// 커밋하지 않고 같은 오프셋으로 되돌린다. 그대로 두면 다음 메시지의
			// 커밋이 이 메시지까지 덮어 버린다.
			rewind(ctx, c, msg)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			logger.ErrorWithFields("offset commit failed", logger.Fields{"topic": topic.Base(), "error": err.Error()})
		}
	}
}

// process handles one message and reports whether its offset may be
// committed. A message is left uncommitted only when parking it failed.
func (k *KafkaConsumer) process(ctx context.Context, topic Topic, value []byte, handler Handler) bool {
	var evt Event
	if err := json.Unmarshal(value, &evt); err != nil {
		logger.ErrorWithFields("bad event payload, skipping", logger.Fields{"topic": topic.Base(), "error": err.Error()})
		return true
	}

	fields := logger.Fields{"event_id": evt.ID, "type": evt.Type, "retry": evt.Retry}
	herr := handler(ctx, evt)
	if herr == nil {
		logger.DebugWithFields("event handled", fields)
		return true
	}

	target, next := nextHop(topic, evt, herr)
	fields["error"] = herr.Error()
	fields["target"] = target
	if target == topic.DLQ() {
		logger.ErrorWithFields("retries exhausted, parking event", fields)
	} else {
		logger.WarnWithFields("event failed, scheduling retry", fields)
	}

	if err := k.Publisher.Publish(ctx, target, next); err != nil {
		fields["publish_error"] = err.Error()
		logger.ErrorWithFields("could not park failed event, redelivering", fields)
		return false
	}
	return true
}

// RunRetryReinjector moves events from the retry topics back to the base
// topic once their delay has passed.
func (k *KafkaConsumer) RunRetryReinjector(ctx context.Context, topic Topic) error {
	groupID := k.GroupID + "-retry"
	c, err := k.newConsumer(groupID)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SubscribeTopics(topic.RetryTopics(), nil); err != nil {
		return fmt.Errorf("subscribe retry topics: %w", err)
	}
	logger.InfoWithFields("retry reinjector started", logger.Fields{"group": groupID, "topics": topic.RetryTopics()})
	return k.reinject(ctx, c, topic)
}

func (k *KafkaConsumer) reinject(ctx context.Context, c messageReader, topic Topic) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(pollTimeout)
		if err != nil {
			if fatal := readError(err); fatal != nil {
				return fatal
			}
			continue
		}

		name := *msg.TopicPartition.Topic
		at, ok := readyAt(name, msg.Timestamp)
		if !ok {
			logger.ErrorWithFields("unknown retry topic, skipping", logger.Fields{"topic": name})
			_, _ = c.CommitMessage(msg)
			continue
		}
		if wait := time.Until(at); wait > 0 {
			// 오프셋을 되돌려 같은 메시지를 다시 읽는다.
			time.Sleep(min(wait, 500*time.Millisecond))
			if err := c.Seek(msg.TopicPartition, 0); err != nil {
				logger.WarnWithFields("seek failed", logger.Fields{"topic": name, "error": err.Error()})
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("bad retry payload, skipping", logger.Fields{"topic": name, "error": err.Error()})
			_, _ = c.CommitMessage(msg)
			continue
		}
		if err := k.Publisher.Publish(ctx, topic.Base(), evt); err != nil {
			logger.ErrorWithFields("reinject failed, redelivering", logger.Fields{"event_id": evt.ID, "error": err.Error()})
			rewind(ctx, c, msg)
			continue
		}
		logger.InfoWithFields("event reinjected", logger.Fields{"event_id": evt.ID, "retry": evt.Retry})
		if _, err := c.CommitMessage(msg); err != nil {
			logger.ErrorWithFields("offset commit failed", logger.Fields{"topic": name, "error": err.Error()})
		}
	}
}

// rewind waits redeliverBackoff and seeks back to msg so it is read again
// before anything after it can be committed.
func rewind(ctx context.Context, c messageReader, msg *kafka.Message) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(redeliverBackoff):
	}
	if err := c.Seek(msg.TopicPartition, 0); err != nil {
		logger.WarnWithFields("seek failed", logger.Fields{"topic": *msg.TopicPartition.Topic, "error": err.Error()})
	}
}

// readError returns nil for timeouts and transient errors, and the error
// itself when the client is no longer usable.
func readError(err error) error {
	var kerr kafka.Error
	if !errors.As(err, &kerr) {
		logger.ErrorWithFields("consumer read failed", logger.Fields{"error": err.Error()})
		return nil
	}
	if kerr.Code() == kafka.ErrTimedOut {
		return nil
	}
	if kerr.IsFatal() {
		return fmt.Errorf("fatal consumer error: %w", err)
	}
	logger.ErrorWithFields("consumer read failed", logger.Fields{"error": err.Error()})
	return nil
}
