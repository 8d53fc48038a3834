// Package backend manages the shared connection to the retrieval backend,
// a PostgreSQL instance with the pgvector extension.
//
// The pool is created lazily on first use and cached for the life of the
// process. All requests share one pool; pgx handles per-connection pooling
// underneath. Reset drops the cached pool so the next Get reconnects.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// ErrUnavailable indicates the backend connection could not be established,
// either because credentials are missing or because construction failed.
var ErrUnavailable = errors.New("retrieval backend unavailable")

// maxPoolConns bounds the shared pool.
const maxPoolConns = 10

// connectFunc builds and verifies a pool. Swapped out in tests.
type connectFunc func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

// Client is the process-wide handle to the retrieval backend.
// Safe for concurrent use; the check-then-create sequence in Get is
// serialized by a mutex so concurrent first access builds one pool.
type Client struct {
	dsn    string
	logger log.Logger

	connect connectFunc

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New returns a Client that will connect with the given DSN on first use.
// No connection is attempted here.
func New(dsn string, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		dsn:     dsn,
		logger:  logger,
		connect: defaultConnect,
	}
}

// Get returns the shared pool, creating and verifying it on first call.
// Later calls return the cached pool without touching the network.
// Returns an error wrapping ErrUnavailable when the DSN is not configured
// or the connection cannot be established.
func (c *Client) Get(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}

	if c.dsn == "" {
		return nil, fmt.Errorf("%w: connection string not configured (set WADDEN_POSTGRES_* or DATABASE_URL)", ErrUnavailable)
	}

	pool, err := c.connect(ctx, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.pool = pool
	c.logger.Info("retrieval backend connected")
	return c.pool, nil
}

// Reset drops the cached pool so the next Get reconnects. The old pool is
// not closed: callers holding it keep working, which is exactly what
// forced-reconnect and test scenarios want. Use Close for shutdown.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.logger.Debug("retrieval backend handle reset")
	}
	c.pool = nil
}

// Close releases the cached pool. Safe to call when nothing was connected.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// defaultConnect builds the pool and verifies it with a ping, so the first
// successful Get corresponds to a live connection.
func defaultConnect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	cfg.MaxConns = maxPoolConns
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging backend: %w", err)
	}
	return pool, nil
}
