package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// dbFileName is the database file created inside Config.DataDir.
const dbFileName = "binctl.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a SQLite database file. A Backend owns
// one *sql.DB; every request borrows a connection from it for the length of
// one transaction or one snapshot read.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle and rollback events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBackendFromDB returns a Backend attached to an already opened database.
// The schema is not created. Detach closes db.
func NewBackendFromDB(db *sql.DB, opts ...Option) *Backend {
	b := NewBackend(opts...)
	b.db = db
	b.attached = true
	b.config = types.Config{Backend: types.BackendSQLite}
	return b
}

// Attach opens (or creates) the database file under config.DataDir and
// provisions the schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dsn(dbPath, config.GetBusyTimeout()))
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}

	if err := createSchema(context.Background(), db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true

	b.logger.Info("store attached", "path", dbPath)
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}
	b.attached = false

	b.logger.Info("store detached")
	return nil
}

// dsn builds the modernc.org/sqlite connection string. Foreign keys are
// enforced on every connection and write transactions take the write lock
// at BEGIN so two writers never deadlock upgrading a shared lock.
func dsn(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// database returns the open *sql.DB or ErrStoreDetached.
func (b *Backend) database() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// WithTx runs fn inside one transaction. The transaction commits only if fn
// returns nil; any error or panic rolls it back. fn must not commit or roll
// back on its own.
func (b *Backend) WithTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	db, err := b.database()
	if err != nil {
		return err
	}

	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("beginning transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				b.logger.Warn("rollback failed", "error", rbErr)
			}
			b.logger.Debug("transaction rolled back", "cause", err)
		}
	}()

	if err = fn(newTx(sqlTx)); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return wrapErr("committing transaction", err)
	}
	return nil
}

// WithSnapshot runs fn against a single pinned connection inside one read
// transaction, so every query fn issues observes the same database state.
// The connection is returned to the pool on every path.
func (b *Backend) WithSnapshot(ctx context.Context, fn func(q DBTX) error) error {
	db, err := b.database()
	if err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return wrapErr("acquiring connection", err)
	}
	defer conn.Close()

	// Plain BEGIN is deferred: it takes no lock until the first read, and
	// in WAL mode readers never block writers.
	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		return wrapErr("beginning snapshot", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "ROLLBACK"); err != nil {
			b.logger.Warn("ending snapshot failed", "error", err)
		}
	}()

	return fn(conn)
}

// newID generates a UUID v7. Version 7 ids sort by creation time, so
// ordering by id lists entities oldest first.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// now returns the current time in UTC. Tests replace it to pin timestamps.
var now = func() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
