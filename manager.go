package tokensession

import (
	"context"
	"fmt"
	"time"

	"github.com/bluescreen10/tokensession/remote"
	"github.com/bluescreen10/tokensession/token"
)

const (
	SessionNamespace = "session"
	ConfigNamespace  = "config"

	tokenKey = "token"

	loginMetric  = "tokensession_login_total"
	guestMetric  = "tokensession_guest_total"
	logoutMetric = "tokensession_logout_total"
)

// Remote is the part of the remote authority the Manager depends on.
// *remote.Client implements it.
type Remote interface {
	Login(ctx context.Context, credentials any) (remote.Response[remote.TokenData], error)
	Config(ctx context.Context, token string) (remote.Response[map[string]any], error)
}

var _ Remote = (*remote.Client)(nil)

// Manager owns the client session: the current token, the derived
// admin/validity status and the login, guest and logout flows.
//
// The session state is never cached in memory; every call recomputes it
// from the token held in the session namespace.
type Manager struct {
	store   Store
	remote  Remote
	codec   Codec
	now     func() time.Time
	logger  Logger
	metrics Metrics

	sessions *Namespace
	config   *Namespace
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used by IsValid. (default time.Now.)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger. (default NopLogger.)
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMetrics sets the metrics sink. (default NoopMetrics.)
func WithMetrics(mt Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithCodec sets the codec used to serialize namespace values.
// (default JSONCodec.)
func WithCodec(c Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// NewManager returns a Manager that persists its state in store and talks
// to the authority through rmt. Init must be called before the session
// is modified.
func NewManager(store Store, rmt Remote, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		remote:  rmt,
		codec:   JSONCodec{},
		now:     time.Now,
		logger:  NopLogger{},
		metrics: NoopMetrics{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init opens the session and config namespaces.
func (m *Manager) Init() {
	m.sessions = Open(m.store, SessionNamespace).WithCodec(m.codec)
	m.config = Open(m.store, ConfigNamespace).WithCodec(m.codec)
}

// Config returns the namespace populated by Guest, or nil before Init.
func (m *Manager) Config() *Namespace {
	return m.config
}

// Token returns the current token. A token that cannot be read is
// reported as absent.
func (m *Manager) Token() (string, bool) {
	if m.sessions == nil {
		return "", false
	}

	var tok string
	found, err := m.sessions.Get(tokenKey, &tok)
	if err != nil {
		m.logger.Warnf("tokensession: reading token: %v", err)
		return "", false
	}
	return tok, found
}

// SetToken stores tok as the current token, replacing any previous one.
func (m *Manager) SetToken(tok string) error {
	if m.sessions == nil {
		return ErrNotInitialized
	}
	return m.sessions.Set(tokenKey, tok)
}

// Login sends credentials to the authority. It returns true, and stores
// the issued token, only when the authority answers with success. Any
// other answer returns false and leaves the session untouched. Errors are
// reserved for transport and storage failures.
func (m *Manager) Login(ctx context.Context, credentials any) (bool, error) {
	if m.sessions == nil {
		return false, ErrNotInitialized
	}

	res, err := m.remote.Login(ctx, credentials)
	if err != nil {
		m.metrics.IncCounter(loginMetric, map[string]string{"result": "error"})
		return false, fmt.Errorf("login: %w", err)
	}

	if !res.OK() || res.Data.Token == "" {
		m.logger.Infof("tokensession: login rejected with status %d", res.StatusCode)
		m.metrics.IncCounter(loginMetric, map[string]string{"result": "rejected"})
		return false, nil
	}

	if err := m.SetToken(res.Data.Token); err != nil {
		m.metrics.IncCounter(loginMetric, map[string]string{"result": "error"})
		return false, fmt.Errorf("login: %w", err)
	}

	m.logger.Debugf("tokensession: login succeeded")
	m.metrics.IncCounter(loginMetric, map[string]string{"result": "success"})
	return true, nil
}

// Guest exchanges tok for the server configuration. On success every
// entry of the configuration is written to the config namespace and tok
// becomes the current token, in that order. A non-success answer returns
// ErrConfigFetch without touching the session.
func (m *Manager) Guest(ctx context.Context, tok string) (map[string]any, error) {
	if m.sessions == nil {
		return nil, ErrNotInitialized
	}

	res, err := m.remote.Config(ctx, tok)
	if err != nil {
		m.metrics.IncCounter(guestMetric, map[string]string{"result": "error"})
		return nil, fmt.Errorf("guest: %w", err)
	}

	if !res.OK() {
		m.logger.Warnf("tokensession: config fetch failed with status %d", res.StatusCode)
		m.metrics.IncCounter(guestMetric, map[string]string{"result": "rejected"})
		return nil, fmt.Errorf("%w: status %d", ErrConfigFetch, res.StatusCode)
	}

	for k, v := range res.Data {
		if err := m.config.Set(k, v); err != nil {
			m.metrics.IncCounter(guestMetric, map[string]string{"result": "error"})
			return nil, fmt.Errorf("guest: %w", err)
		}
	}

	if err := m.SetToken(tok); err != nil {
		m.metrics.IncCounter(guestMetric, map[string]string{"result": "error"})
		return nil, fmt.Errorf("guest: %w", err)
	}

	m.logger.Debugf("tokensession: guest session started with %d config entries", len(res.Data))
	m.metrics.IncCounter(guestMetric, map[string]string{"result": "success"})
	return res.Data, nil
}

// Logout removes the current token. The config namespace is kept for the
// next session.
func (m *Manager) Logout() error {
	if m.sessions == nil {
		return ErrNotInitialized
	}
	if err := m.sessions.Unset(tokenKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.metrics.IncCounter(logoutMetric, map[string]string{})
	return nil
}

// IsAdmin reports whether the current token is structured, as opposed to
// an opaque guest token.
func (m *Manager) IsAdmin() bool {
	tok, _ := m.Token()
	return token.IsStructured(tok)
}

// Decode returns the claims of the current token. It returns false for
// opaque tokens and for payloads that fail to decode.
func (m *Manager) Decode() (token.Claims, bool) {
	tok, _ := m.Token()
	if !token.IsStructured(tok) {
		return nil, false
	}
	return token.DecodePayload(tok)
}

// IsValid reports whether the current token is structured and its "exp"
// claim lies strictly in the future.
func (m *Manager) IsValid() bool {
	claims, ok := m.Decode()
	if !ok {
		return false
	}
	now := m.now()
	return claims.Expiry() > float64(now.Unix())+float64(now.Nanosecond())/1e9
}
