// Package cache persists the last reason the app has seen. The store is a
// single slot: every write replaces the previous value, and reads either
// return the one entry or nothing.
//
// Storage faults never reach callers. Reads fail open to absent, writes and
// clears are best-effort; faults are logged and swallowed so a broken disk
// degrades the app to online-only instead of crashing it.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const (
	keyReason    = "reason"
	keyWrittenAt = "reason_written_at"
)

// Entry is the cached reason plus the time it was written.
type Entry struct {
	Reason    string
	WrittenAt time.Time
}

// Stale reports whether the entry is older than maxAge. Stale entries are
// still served; staleness only informs the display.
func (e *Entry) Stale(maxAge time.Duration) bool {
	if e == nil || maxAge <= 0 {
		return false
	}
	return time.Since(e.WrittenAt) > maxAge
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
	logger  *log.Logger

	mu     sync.Mutex
	subs   map[int]chan *Entry
	nextID int
}

func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{
		readDB:  readDB,
		writeDB: writeDB,
		logger:  logger,
		subs:    make(map[int]chan *Entry),
	}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close releases the database handles and terminates all Watch channels.
func (s *Store) Close() error {
	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// Read returns the cached entry, or nil when nothing is cached. Storage
// faults are treated as absent. Both keys are read in one statement so a
// concurrent Write cannot produce a torn entry.
func (s *Store) Read() *Entry {
	rows, err := s.readDB.Query(`SELECT key, value FROM meta WHERE key IN (?, ?)`, keyReason, keyWrittenAt)
	if err != nil {
		s.logger.Warn("cache read failed, treating as empty", "err", err)
		return nil
	}
	defer rows.Close()

	var reason, writtenAt string
	var found bool
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			s.logger.Warn("cache read failed, treating as empty", "err", err)
			return nil
		}
		switch key {
		case keyReason:
			reason = value
			found = true
		case keyWrittenAt:
			writtenAt = value
		}
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("cache read failed, treating as empty", "err", err)
		return nil
	}
	if !found {
		return nil
	}

	entry := &Entry{Reason: reason}
	if ms, err := strconv.ParseInt(writtenAt, 10, 64); err == nil {
		entry.WrittenAt = time.UnixMilli(ms)
	}
	return entry
}

// Write replaces the cached reason with value, stamped now. Both keys are
// committed in one transaction so readers never see a torn entry.
func (s *Store) Write(value string) {
	now := time.Now()

	tx, err := s.writeDB.Begin()
	if err != nil {
		s.logger.Warn("cache write failed", "err", err)
		return
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := tx.Exec(upsert, keyReason, value); err != nil {
		s.logger.Warn("cache write failed", "err", err)
		return
	}
	if _, err := tx.Exec(upsert, keyWrittenAt, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		s.logger.Warn("cache write failed", "err", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.logger.Warn("cache write failed", "err", err)
		return
	}

	s.notify()
}

// Clear removes the cached reason. Like Write, faults are swallowed.
func (s *Store) Clear() {
	_, err := s.writeDB.Exec(`DELETE FROM meta WHERE key IN (?, ?)`, keyReason, keyWrittenAt)
	if err != nil {
		s.logger.Warn("cache clear failed", "err", err)
		return
	}
	s.notify()
}

// Watch returns a channel that yields the current entry immediately and a
// fresh snapshot after every committed Write or Clear, in commit order. Each
// caller gets an independent channel. The returned func unsubscribes and
// closes the channel; callers must invoke it when done.
//
// A subscriber that stops draining its channel misses snapshots rather than
// blocking writers; the ones it does receive stay in order.
func (s *Store) Watch() (<-chan *Entry, func()) {
	ch := make(chan *Entry, 8)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.Read()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// notify fans the current entry out to every subscriber. The snapshot is
// read under the subscriber lock so deliveries stay in commit order.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.Read()
	for _, ch := range s.subs {
		select {
		case ch <- entry:
		default:
		}
	}
}
