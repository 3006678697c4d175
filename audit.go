package grcAuth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

type AuditEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	ObjectType  string    `json:"object_type"`
	ObjectID    string    `json:"object_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"`
	IP          string    `json:"ip,omitempty"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent) error
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) error { return nil }

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) error {
	select {
	case s.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) error {
	if s == nil || s.writer == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	_, err = s.writer.Write([]byte("\n"))
	return err
}
