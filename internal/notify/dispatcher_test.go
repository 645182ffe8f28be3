package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	d.Emit(context.Background(), Notice{Message: "dropped"})
	d.Post(context.Background(), LevelInfo, "test", "dropped", nil)
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDisabledConfigYieldsNil(t *testing.T) {
	if d := NewDispatcher(Config{Enabled: false}, NoOpSink{}); d != nil {
		t.Fatal("disabled config must return nil dispatcher")
	}
}

func TestDispatcherDelivers(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	d.Post(context.Background(), LevelSuccess, "login", "welcome back", nil)

	select {
	case notice := <-sink.Notices():
		if notice.Level != LevelSuccess || notice.Source != "login" {
			t.Fatalf("got %+v", notice)
		}
		if notice.Timestamp.IsZero() {
			t.Fatal("timestamp not stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("notice not delivered")
	}
}

func TestDispatcherCarriesError(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer d.Close()

	d.Post(context.Background(), LevelWarning, "session", "store failed", errors.New("disk full"))

	select {
	case notice := <-sink.Notices():
		if notice.Err != "disk full" {
			t.Fatalf("Err = %q", notice.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("notice not delivered")
	}
}

func TestDropIfFullCountsDrops(t *testing.T) {
	// A sink that blocks forever keeps the buffer saturated.
	blocked := make(chan struct{})
	sink := sinkFunc(func(context.Context, Notice) { <-blocked })

	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(blocked)
		d.Close()
	}()

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Notice{Message: "spam"})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected drops under backpressure")
	}
}

func TestCloseDrainsBuffered(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Notice{Message: "queued"})
	}
	d.Close()

	delivered := 0
	for {
		select {
		case <-sink.Notices():
			delivered++
		default:
			if delivered != 5 {
				t.Fatalf("delivered %d of 5 after Close", delivered)
			}
			return
		}
	}
}

func TestEmitAfterCloseIsNoOp(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	d.Close()

	d.Emit(context.Background(), Notice{Message: "late"})

	select {
	case <-sink.Notices():
		t.Fatal("notice delivered after Close")
	default:
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Notice{
		Level:   LevelError,
		Source:  "request",
		Message: "server error",
	})

	line := strings.TrimSpace(buf.String())
	var decoded Notice
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not one JSON object per line: %v", err)
	}
	if decoded.Message != "server error" {
		t.Fatalf("Message = %q", decoded.Message)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelInfo:    "info",
		LevelSuccess: "success",
		LevelWarning: "warning",
		LevelError:   "error",
		Level(99):    "unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

type sinkFunc func(context.Context, Notice)

func (f sinkFunc) Emit(ctx context.Context, n Notice) { f(ctx, n) }
