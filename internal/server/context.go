package server

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/instrumentation"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/localtime"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/reclaim"
)

// Config holds the server configuration.
type Config struct {
	// APIKey is the Reclaim API key used for all upstream calls.
	APIKey string

	// APIURL overrides the Reclaim API base URL (default: production).
	APIURL string

	// TimeZone is the operator-configured fallback timezone for
	// offset-less date/time inputs. May be empty.
	TimeZone string

	// ReadOnly disables all mutating tools when true.
	ReadOnly bool
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	client   *reclaim.Client
	config   Config
	provider *instrumentation.Provider

	// Account info is fetched at most once per process. The first caller
	// triggers the fetch; everyone else waits on the same result,
	// including a failed one.
	accountOnce sync.Once
	accountDone atomic.Bool
	accountUser *reclaim.User
	accountErr  error

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, config Config, provider *instrumentation.Provider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	opts := []reclaim.Option{}
	if config.APIURL != "" {
		opts = append(opts, reclaim.WithBaseURL(config.APIURL))
	}

	client, err := reclaim.NewClient(config.APIKey, opts...)
	if err != nil {
		cancel()
		return nil, err
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		client:   client,
		config:   config,
		provider: provider,
		shutdown: false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the Reclaim API client.
func (sc *ServerContext) Client() *reclaim.Client {
	return sc.client
}

// ReadOnly returns whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.config.ReadOnly
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// Account returns the current user's account info, fetching it from the
// API on first use. The result (success or failure) is cached for the
// process lifetime; concurrent callers share a single fetch.
func (sc *ServerContext) Account(ctx context.Context) (*reclaim.User, error) {
	sc.accountOnce.Do(func() {
		sc.accountUser, sc.accountErr = sc.client.CurrentUser(ctx)
		sc.accountDone.Store(true)
	})
	return sc.accountUser, sc.accountErr
}

// AccountState reports the account cache state without triggering a
// fetch: whether the single fetch has completed, and its error if any.
func (sc *ServerContext) AccountState() (resolved bool, err error) {
	if !sc.accountDone.Load() {
		return false, nil
	}
	return true, sc.accountErr
}

// AccountTimeZone returns the account's IANA timezone name, or "" when
// the account info is unavailable.
func (sc *ServerContext) AccountTimeZone(ctx context.Context) string {
	user, err := sc.Account(ctx)
	if err != nil || user == nil {
		return ""
	}
	return user.Settings.TimeZone.ID
}

// TaskDefaults returns the account's task creation defaults. A zero
// value is returned when the account info is unavailable so that task
// creation can still proceed with built-in defaults.
func (sc *ServerContext) TaskDefaults(ctx context.Context) reclaim.TaskDefaults {
	user, err := sc.Account(ctx)
	if err != nil || user == nil {
		return reclaim.TaskDefaults{}
	}
	return user.Features.TaskSettings.Defaults
}

// LocalTimeContext returns the timezone resolution context for
// date/time inputs: an explicit per-call timezone wins, then the
// operator-configured fallback, then the account timezone.
func (sc *ServerContext) LocalTimeContext(ctx context.Context, explicit string) localtime.Context {
	return localtime.Context{
		TimeZone:        explicit,
		DefaultTimeZone: sc.config.TimeZone,
		AccountTimeZone: func() string {
			return sc.AccountTimeZone(ctx)
		},
	}
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
