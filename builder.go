package ihdrs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ihdrs/ihdrs-client-go/api"
	"github.com/ihdrs/ihdrs-client-go/credstore"
	"github.com/ihdrs/ihdrs-client-go/internal/flows"
	"github.com/ihdrs/ihdrs-client-go/internal/notify"
	"github.com/ihdrs/ihdrs-client-go/token"
	"github.com/ihdrs/ihdrs-client-go/transport"
)

// Builder assembles a [Manager]. A Builder is single-use and not safe for
// concurrent use; the Manager it produces is both.
type Builder struct {
	config Config
	store  credstore.Store

	httpClient *http.Client
	noticeSink NoticeSink

	progressStart func()
	progressEnd   func()

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets only the backend origin, keeping the rest of the config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithStore sets the credential store. Required.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient supplies the underlying *http.Client, e.g. one with custom
// TLS or proxy settings. The client keeps its own timeout.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNoticeSink routes user-facing notices to the host UI.
func (b *Builder) WithNoticeSink(sink NoticeSink) *Builder {
	b.noticeSink = sink
	return b
}

// WithProgressFuncs installs callbacks fired at the start and end of every
// pipeline request, for a progress bar or spinner.
func (b *Builder) WithProgressFuncs(start, end func()) *Builder {
	b.progressStart = start
	b.progressEnd = end
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the pipeline, flow service, and
// notice dispatcher, and restores any persisted session from the store.
func (b *Builder) Build(ctx context.Context) (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	if b.store == nil {
		return nil, ErrStoreRequired
	}

	cfg := applyDefaults(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:     cfg,
		store:   b.store,
		metrics: NewMetrics(cfg.Metrics),
		notices: notify.NewDispatcher(notify.Config{
			Enabled:    cfg.Notify.Enabled,
			BufferSize: cfg.Notify.BufferSize,
			DropIfFull: cfg.Notify.DropIfFull,
		}, b.noticeSink),
	}

	pipeline, err := transport.NewClient(transport.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: b.httpClient,
		Tokens:     m,
		Hooks:      b.hooks(m),
		Notices:    m.notices,
	})
	if err != nil {
		m.notices.Close()
		return nil, err
	}
	m.api = api.NewClient(pipeline)

	validateDeps := flows.ValidateDeps{
		Leeway: cfg.Session.ExpiryLeeway,
		Call:   m.api.Validate,
	}
	if !cfg.Session.DisableLocalExpiryCheck {
		validateDeps.Peek = token.Peek
		validateDeps.Now = time.Now
	}
	m.flows = flows.New(flows.Deps{
		Login:    flows.LoginDeps{Call: m.api.Login},
		Register: flows.RegisterDeps{Call: m.api.Register},
		Validate: validateDeps,
	})

	if err := m.restore(ctx); err != nil {
		m.notices.Close()
		return nil, err
	}

	b.built = true
	return m, nil
}

// hooks wires the pipeline callbacks back into the Manager. OnUnauthorized is
// the global 401 reaction; it must stay idempotent because concurrent
// in-flight requests can all hit it for the same dead session.
func (b *Builder) hooks(m *Manager) transport.Hooks {
	progressStart, progressEnd := b.progressStart, b.progressEnd
	return transport.Hooks{
		OnRequestStart: func(method, path string) {
			m.metrics.Inc(MetricRequestStarted)
			if progressStart != nil {
				progressStart()
			}
		},
		OnRequestEnd: func(method, path string) {
			if progressEnd != nil {
				progressEnd()
			}
		},
		OnUnauthorized: func(ctx context.Context) {
			m.metrics.Inc(MetricUnauthorizedResponse)
			m.ForcedLogout(ctx)
		},
	}
}

// restore seeds the session from the store. A corrupt record is treated as
// no session and surfaced as a warning notice; an unreadable store fails the
// build so callers do not silently start logged out.
func (m *Manager) restore(ctx context.Context) error {
	record, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, credstore.ErrCorrupt) {
			m.notices.Post(ctx, notify.LevelWarning, "session",
				"stored session was unreadable and has been discarded", err)
			_ = m.store.Clear(ctx)
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}
	if record.Token == "" || len(record.Profile) == 0 {
		// Half a session is no session.
		return nil
	}

	var profile Profile
	if err := json.Unmarshal(record.Profile, &profile); err != nil || profile.IsEmpty() {
		m.notices.Post(ctx, notify.LevelWarning, "session",
			"stored session was unreadable and has been discarded", err)
		_ = m.store.Clear(ctx)
		return nil
	}

	m.mu.Lock()
	m.setSessionLocked(record.Token, profile)
	m.mu.Unlock()
	return nil
}
