// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver used by Open.
	DriverName = "sqlite"
	// MemoryDSN opens a private in-memory database.
	MemoryDSN = ":memory:"

	// WelcomePath is the file created by seeding.
	WelcomePath = "/welcome.txt"
	// WelcomeText is the fixed content of WelcomePath.
	WelcomeText = "Welcome to Tasnuva TOS!\n" +
		"This is a virtual filesystem.\n" +
		"Try commands like ls, cd, mkdir, touch, cat, echo, rm.\n"

	timeLayout = time.RFC3339Nano

	nodeColumns = "path, name, kind, content, created_at, modified_at"
)

//go:embed schema.sql
var schema string

// defaultDirectories are created under the root by seeding, in this order.
var defaultDirectories = []string{"/home", "/tmp", "/usr", "/var"}

type (
	// Clock supplies timestamps for created_at and modified_at.
	Clock interface {
		Now() time.Time
	}

	// Option configures a Store.
	Option func(*Store)

	// Store owns the nodes table. Paths passed to Store methods must already
	// be canonical; use a Session to work with raw user input.
	//
	// A Store is safe for concurrent use: the connection pool is limited to a
	// single connection and every mutation runs in its own transaction.
	Store struct {
		db    *sql.DB
		clock Clock

		// generation is bumped whenever the whole table is replaced, so
		// sessions can tell that their cursor may no longer exist.
		generation atomic.Uint64
	}

	// querier is the subset of *sql.DB and *sql.Tx used by the helpers.
	querier interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}

	realClock struct{}
)

func (realClock) Now() time.Time { return time.Now() }

// WithClock overrides the time source, mostly for tests.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// Open opens the database at dsn with the sqlite driver, creates the schema
// when missing and seeds the initial tree on first use.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, storageError(err))
	}
	// One connection keeps ":memory:" databases alive and serializes
	// transactions across sessions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close() // Best-effort cleanup; the init error is more useful
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database. The schema is created and seeded if
// the table is empty.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, clock: realClock{}}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageError(err)
	}
	return nil
}

// DB exposes the underlying handle for diagnostics and tests.
func (s *Store) DB() *sql.DB { return s.db }

// Generation returns a counter that changes every time the whole tree is
// replaced by Reset or Restore.
func (s *Store) Generation() uint64 { return s.generation.Load() }

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("configure database: %w", storageError(err))
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("create schema: %w", storageError(err))
		}
		_, found, err := lookup(ctx, tx, Root)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		slog.Debug("seeding virtual filesystem")
		return s.seed(ctx, tx)
	})
}

// seed inserts the root, the default directories and the welcome file.
func (s *Store) seed(ctx context.Context, tx *sql.Tx) error {
	now := s.clock.Now()
	if err := insert(ctx, tx, Root, KindDirectory, "", now); err != nil {
		return err
	}
	for _, dir := range defaultDirectories {
		if err := insert(ctx, tx, dir, KindDirectory, "", now); err != nil {
			return err
		}
	}
	return insert(ctx, tx, WelcomePath, KindFile, WelcomeText, now)
}

// Lookup returns the node stored at path.
func (s *Store) Lookup(ctx context.Context, path string) (Node, error) {
	node, found, err := lookup(ctx, s.db, path)
	if err != nil {
		return Node{}, pathError("stat", path, err)
	}
	if !found {
		return Node{}, pathError("stat", path, ErrNotFound)
	}
	return node, nil
}

// List returns the direct children of dir, directories first and then by
// name. It fails with ErrNotFound when dir is missing or is a file.
func (s *Store) List(ctx context.Context, dir string) ([]Entry, error) {
	node, found, err := lookup(ctx, s.db, dir)
	if err != nil {
		return nil, pathError("list", dir, err)
	}
	if !found || !node.IsDir() {
		return nil, pathError("list", dir, ErrNotFound)
	}

	prefix := childPrefix(dir)
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind FROM nodes
		WHERE path <> ?
		  AND substr(path, 1, length(?)) = ?
		  AND instr(substr(path, length(?) + 1), '/') = 0
		ORDER BY CASE kind WHEN 'directory' THEN 0 ELSE 1 END, name`,
		dir, prefix, prefix, prefix)
	if err != nil {
		return nil, pathError("list", dir, storageError(err))
	}
	defer func() { _ = rows.Close() }() // Read-only cursor; close error carries no data

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Kind); err != nil {
			return nil, pathError("list", dir, storageError(err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, pathError("list", dir, storageError(err))
	}
	return entries, nil
}

// WriteFile replaces or appends to the file at path, creating it when
// missing. Writing to a directory fails with ErrRejected; creating a file
// whose parent is not an existing directory fails with ErrNoParent.
func (s *Store) WriteFile(ctx context.Context, path, content string, appendContent bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		node, found, err := lookup(ctx, tx, path)
		if err != nil {
			return pathError("write", path, err)
		}
		now := s.clock.Now()

		if !found {
			if err := requireParentDir(ctx, tx, path); err != nil {
				return pathError("write", path, err)
			}
			if err := insert(ctx, tx, path, KindFile, content, now); err != nil {
				return pathError("write", path, err)
			}
			return nil
		}

		if node.IsDir() {
			return pathError("write", path, ErrRejected)
		}
		if appendContent {
			content = node.Content + content
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE nodes SET content = ?, modified_at = ? WHERE path = ?",
			content, formatTime(now), path)
		if err != nil {
			return pathError("write", path, storageError(err))
		}
		return nil
	})
}

// CreateDirectory inserts an empty directory at path.
func (s *Store) CreateDirectory(ctx context.Context, path string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, found, err := lookup(ctx, tx, path)
		if err != nil {
			return pathError("mkdir", path, err)
		}
		if found {
			return pathError("mkdir", path, ErrAlreadyExists)
		}
		if err := requireParentDir(ctx, tx, path); err != nil {
			return pathError("mkdir", path, err)
		}
		if err := insert(ctx, tx, path, KindDirectory, "", s.clock.Now()); err != nil {
			return pathError("mkdir", path, err)
		}
		return nil
	})
}

// CreateDirectoryAll creates path and every missing ancestor. An existing
// directory at path is not an error; an existing file is ErrAlreadyExists,
// and a file in the middle of the path is ErrNoParent.
func (s *Store) CreateDirectoryAll(ctx context.Context, path string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.clock.Now()
		for _, p := range ancestorsAndSelf(path) {
			node, found, err := lookup(ctx, tx, p)
			if err != nil {
				return pathError("mkdir", path, err)
			}
			switch {
			case !found:
				if err := insert(ctx, tx, p, KindDirectory, "", now); err != nil {
					return pathError("mkdir", path, err)
				}
			case node.IsDir():
				continue
			case p == path:
				return pathError("mkdir", path, ErrAlreadyExists)
			default:
				return pathError("mkdir", path, ErrNoParent)
			}
		}
		return nil
	})
}

// Remove deletes the node at path. Directories must have no descendants.
// The root can never be removed, which only shows once it is empty.
func (s *Store) Remove(ctx context.Context, path string) error {
	return s.remove(ctx, path, "")
}

// remove is Remove for a caller whose cursor is at cwd. Once the descendant
// check passed, a directory that still contains cwd is cwd itself and is
// reported as ErrBusy.
func (s *Store) remove(ctx context.Context, path, cwd string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		node, found, err := lookup(ctx, tx, path)
		if err != nil {
			return pathError("remove", path, err)
		}
		if !found {
			return pathError("remove", path, ErrNotFound)
		}
		if node.IsDir() {
			prefix := childPrefix(path)
			var nested bool
			err := tx.QueryRowContext(ctx,
				"SELECT EXISTS (SELECT 1 FROM nodes WHERE substr(path, 1, length(?)) = ?)",
				prefix, prefix).Scan(&nested)
			if err != nil {
				return pathError("remove", path, storageError(err))
			}
			if nested {
				return pathError("remove", path, ErrNotEmpty)
			}
			if path == Root || (cwd != "" && isWithin(cwd, path)) {
				return pathError("remove", path, ErrBusy)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE path = ?", path); err != nil {
			return pathError("remove", path, storageError(err))
		}
		return nil
	})
}

// Reset discards every node and reseeds the initial tree in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := truncateNodes(ctx, tx); err != nil {
			return err
		}
		return s.seed(ctx, tx)
	})
	if err != nil {
		return pathError("reset", Root, err)
	}
	s.generation.Add(1)
	slog.Debug("virtual filesystem reset", "generation", s.Generation())
	return nil
}

// Snapshot returns every node ordered by path. Parents always precede their
// children in that order.
func (s *Store) Snapshot(ctx context.Context) ([]Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+nodeColumns+" FROM nodes ORDER BY path")
	if err != nil {
		return nil, storageError(err)
	}
	defer func() { _ = rows.Close() }() // Read-only cursor; close error carries no data

	var nodes []Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return nodes, nil
}

// Restore replaces the whole tree with nodes after checking them with
// ValidateTree. Zero timestamps are replaced by the current time.
func (s *Store) Restore(ctx context.Context, nodes []Node) error {
	ordered, err := ValidateTree(nodes)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := truncateNodes(ctx, tx); err != nil {
			return err
		}
		for _, n := range ordered {
			created, modified := n.CreatedAt, n.ModifiedAt
			if created.IsZero() {
				created = now
			}
			if modified.IsZero() {
				modified = created
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO nodes ("+nodeColumns+") VALUES (?, ?, ?, ?, ?, ?)",
				n.Path, Base(n.Path), string(n.Kind), n.Content, formatTime(created), formatTime(modified))
			if err != nil {
				return pathError("restore", n.Path, storageError(err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.generation.Add(1)
	slog.Debug("virtual filesystem restored", "nodes", len(ordered), "generation", s.Generation())
	return nil
}

// withTx runs fn inside a transaction and commits when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", storageError(err))
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Warn("transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", storageError(err))
	}
	return nil
}

func lookup(ctx context.Context, q querier, path string) (Node, bool, error) {
	row := q.QueryRowContext(ctx, "SELECT "+nodeColumns+" FROM nodes WHERE path = ?", path)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, false, nil
	}
	if err != nil {
		return Node{}, false, err
	}
	return node, true, nil
}

// requireParentDir fails with ErrNoParent unless the parent of path is an
// existing directory.
func requireParentDir(ctx context.Context, q querier, path string) error {
	parent, found, err := lookup(ctx, q, Parent(path))
	if err != nil {
		return err
	}
	if !found || !parent.IsDir() {
		return ErrNoParent
	}
	return nil
}

func insert(ctx context.Context, q querier, path string, kind Kind, content string, now time.Time) error {
	ts := formatTime(now)
	_, err := q.ExecContext(ctx,
		"INSERT INTO nodes ("+nodeColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		path, Base(path), string(kind), content, ts, ts)
	return storageError(err)
}

// truncateNodes deletes every row and restarts the id sequence, leaving the table as
// freshly created.
func truncateNodes(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return storageError(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'nodes'"); err != nil {
		return storageError(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (Node, error) {
	var (
		n                 Node
		kind              string
		created, modified string
	)
	if err := row.Scan(&n.Path, &n.Name, &kind, &n.Content, &created, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Node{}, err
		}
		return Node{}, storageError(err)
	}
	n.Kind = Kind(kind)
	if err := n.Kind.Validate(); err != nil {
		return Node{}, storageError(err)
	}
	var err error
	if n.CreatedAt, err = parseTime(created); err != nil {
		return Node{}, storageError(err)
	}
	if n.ModifiedAt, err = parseTime(modified); err != nil {
		return Node{}, storageError(err)
	}
	return n, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// ancestorsAndSelf lists "/a", "/a/b", "/a/b/c" for "/a/b/c". The root is
// omitted because it always exists.
func ancestorsAndSelf(path string) []string {
	if path == Root {
		return nil
	}
	var out []string
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			out = append(out, path[:i])
		}
	}
	return append(out, path)
}
