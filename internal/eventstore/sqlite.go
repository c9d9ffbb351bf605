package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDatabase opens a private in-memory store.
const MemoryDatabase = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath.
// The parent directory is created when missing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != MemoryDatabase {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, wrap(ErrDatabaseOpenFailed, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrap(ErrDatabaseOpenFailed, err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, wrap(ErrInitializeSchemaFailed, err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_build_id ON events(build_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new event stamped with the current time.
func (s *SQLiteStore) Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var metadataJSON []byte
	if metadata != nil {
		var err error
		if metadataJSON, err = json.Marshal(metadata); err != nil {
			return wrap(ErrMarshalPayloadFailed, err)
		}
	}
	if payload == nil {
		payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (build_id, event_type, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		buildID, eventType, s.now().UnixNano(), payload, metadataJSON,
	)
	if err != nil {
		return wrap(ErrEventAppendFailed, err)
	}
	return nil
}

// GetByBuildID retrieves all events for a build in insertion order.
func (s *SQLiteStore) GetByBuildID(ctx context.Context, buildID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload, metadata FROM events WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, wrap(ErrEventQueryFailed, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetRange retrieves events within a time range, inclusive.
func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload, metadata FROM events WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		unixNano(start), unixNano(end),
	)
	if err != nil {
		return nil, wrap(ErrEventQueryFailed, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// unixNano clamps the zero time, whose UnixNano overflows.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e BaseEvent
		var ts int64
		var metadataJSON []byte

		if err := rows.Scan(&e.EventID, &e.EventBuildID, &e.EventType, &ts, &e.EventPayload, &metadataJSON); err != nil {
			return nil, wrap(ErrEventScanFailed, err)
		}
		e.EventTimestamp = time.Unix(0, ts)

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.EventMetadata); err != nil {
				return nil, wrap(ErrEventScanFailed, err)
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrEventScanFailed, err)
	}
	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
