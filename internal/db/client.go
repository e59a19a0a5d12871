// Package db stores species records in SurrealDB, with auto-reconnect and
// BM25 full-text search.
package db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// WebSocket upgrades fail when TLS negotiates HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// Auth levels accepted in Config.AuthLevel.
const (
	AuthRoot     = "root"
	AuthDatabase = "database"
)

// Reconnect policy of the species connection.
const (
	reconnectTimeout  = 5 * time.Second
	reconnectInitial  = time.Second
	reconnectMax      = 30 * time.Second
	reconnectAttempts = 10
)

// Config holds SurrealDB connection configuration.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // AuthRoot (default) or AuthDatabase
}

// Validate reports configuration mistakes before any dialing happens.
func (c Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.URL, "ws://") && !strings.HasPrefix(c.URL, "wss://") {
		errs = append(errs, fmt.Errorf("url %q: want ws:// or wss://", c.URL))
	}
	if c.Namespace == "" || c.Database == "" {
		errs = append(errs, errors.New("namespace and database are required"))
	}
	switch c.AuthLevel {
	case "", AuthRoot, AuthDatabase:
	default:
		errs = append(errs, fmt.Errorf("auth level %q: want %s or %s", c.AuthLevel, AuthRoot, AuthDatabase))
	}
	return errors.Join(errs...)
}

// Client is the SurrealDB species store. The connection redials on its own
// after network failures.
type Client struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    Config
	logger logger.Logger
}

// NewClient dials SurrealDB, signs in and selects the configured namespace
// and database.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("surrealdb config: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	c := &Client{cfg: cfg, logger: logger.New(log.With("component", "db").Handler())}
	c.conn = c.dial()

	c.logger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := c.conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := c.open(ctx); err != nil {
		_ = c.conn.Close(ctx)
		return nil, err
	}
	c.logger.Info("SurrealDB connection established", "namespace", cfg.Namespace, "database", cfg.Database)
	return c, nil
}

// dial builds the reconnecting WebSocket connection. surrealcbor handles
// SurrealDB's custom CBOR tags such as record ids and datetimes.
func (c *Client) dial() *rews.Connection[*gorillaws.Connection] {
	codec := surrealcbor.New()
	// gorillaws appends /rpc itself.
	baseURL := strings.TrimSuffix(c.cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			return gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      c.logger,
			}), nil
		},
		reconnectTimeout,
		codec,
		c.logger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = reconnectInitial
	retryer.MaxDelay = reconnectMax
	retryer.Multiplier = 2.0
	retryer.MaxRetries = reconnectAttempts
	conn.Retryer = retryer
	return conn
}

// open wraps the connection, authenticates and selects the database.
func (c *Client) open(ctx context.Context) error {
	db, err := surrealdb.FromConnection(ctx, c.conn)
	if err != nil {
		return fmt.Errorf("from connection: %w", err)
	}

	auth := surrealdb.Auth{Username: c.cfg.Username, Password: c.cfg.Password}
	if c.cfg.AuthLevel == AuthDatabase {
		auth.Namespace = c.cfg.Namespace
		auth.Database = c.cfg.Database
	}
	c.logger.Info("authenticating", "user", c.cfg.Username, "auth_level", c.cfg.AuthLevel)
	if _, err := db.SignIn(ctx, auth); err != nil {
		return fmt.Errorf("signin: %w", err)
	}
	if err := db.Use(ctx, c.cfg.Namespace, c.cfg.Database); err != nil {
		return fmt.Errorf("use %s/%s: %w", c.cfg.Namespace, c.cfg.Database, err)
	}
	c.db = db
	return nil
}

// Close closes the SurrealDB connection.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Info("closing SurrealDB connection")
	return c.conn.Close(ctx)
}

// InitSchema defines the species table and its indexes. It is idempotent.
func (c *Client) InitSchema(ctx context.Context) error {
	c.logger.Info("initializing database schema")
	if _, err := surrealdb.Query[any](ctx, c.db, SchemaSQL, nil); err != nil {
		return queryError("init schema", err)
	}
	return nil
}

// Ping checks that the database answers queries.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, c.db, `RETURN true`, nil); err != nil {
		return queryError("ping", err)
	}
	return nil
}

// CountSpecies returns the number of stored species.
func (c *Client) CountSpecies(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `SELECT count() FROM species GROUP ALL`, nil)
	if err != nil {
		return 0, queryError("count species", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// WipeData deletes every species and keeps the schema. Testing only.
func (c *Client) WipeData(ctx context.Context) error {
	c.logger.Warn("wiping all species from database")
	if _, err := surrealdb.Query[any](ctx, c.db, `DELETE species`, nil); err != nil {
		return queryError("wipe species", err)
	}
	return nil
}
