package ihdrs

import (
	"io"

	"github.com/ihdrs/ihdrs-client-go/internal/notify"
)

// Notices are the user-facing message stream: login welcomes, forced-logout
// warnings, request failure toasts. The types live in internal/notify; these
// aliases are the public names.
type (
	Notice      = notify.Notice
	NoticeLevel = notify.Level
	NoticeSink  = notify.Sink

	NoOpNoticeSink    = notify.NoOpSink
	ChannelNoticeSink = notify.ChannelSink
	JSONNoticeSink    = notify.JSONWriterSink
)

const (
	NoticeInfo    = notify.LevelInfo
	NoticeSuccess = notify.LevelSuccess
	NoticeWarning = notify.LevelWarning
	NoticeError   = notify.LevelError
)

// NewChannelNoticeSink returns a sink backed by a buffered channel; the host
// UI ranges over Notices() and renders each one.
func NewChannelNoticeSink(buffer int) *ChannelNoticeSink {
	return notify.NewChannelSink(buffer)
}

// NewJSONNoticeSink returns a sink that writes one JSON object per line.
func NewJSONNoticeSink(w io.Writer) *JSONNoticeSink {
	return notify.NewJSONWriterSink(w)
}
