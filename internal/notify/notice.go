package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Level classifies a notice for presentation purposes.
type Level uint8

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is the canonical user-facing message model used by internal
// dispatching and root APIs. It is what the host UI renders as a toast,
// banner, or log line.
type Notice struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Err       string    `json:"error,omitempty"`
}

// Sink receives emitted notices.
type Sink interface {
	Emit(ctx context.Context, notice Notice)
}

// NoOpSink drops notices.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Notice) {}

// ChannelSink writes notices into a buffered channel.
type ChannelSink struct {
	notices chan Notice
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		notices: make(chan Notice, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, notice Notice) {
	select {
	case s.notices <- notice:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Notices() <-chan Notice {
	return s.notices
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, notice Notice) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(notice)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
