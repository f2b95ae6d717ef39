package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Open opens the store selected by driver. logger is only used by badger.
func Open(driver, path string, logger badger.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch driver {
	case DriverBadger, "":
		store, err = OpenBadger(path, logger)
	case DriverSQLite:
		store, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// BadgerStore implements Store on an embedded Badger database.
type BadgerStore struct {
	db       *badger.DB
	seqs     *sequences
	posts    *BadgerPostRepository
	comments *BadgerCommentRepository
	users    *BadgerUserRepository
	sessions *BadgerSessionRepository
}

// OpenBadger opens the database at path. An empty path opens an in-memory
// database. logger may be nil to silence badger.
func OpenBadger(path string, logger badger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(logger).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	seqs := newSequences(db)
	return &BadgerStore{
		db:       db,
		seqs:     seqs,
		posts:    NewBadgerPostRepository(db, seqs),
		comments: NewBadgerCommentRepository(db, seqs),
		users:    NewBadgerUserRepository(db, seqs),
		sessions: NewBadgerSessionRepository(db),
	}
}

// Repository accessors satisfying Store.
func (s *BadgerStore) Posts() PostRepository       { return s.posts }
func (s *BadgerStore) Comments() CommentRepository { return s.comments }
func (s *BadgerStore) Users() UserRepository       { return s.users }
func (s *BadgerStore) Sessions() SessionRepository { return s.sessions }

// DB exposes the underlying database for backup and restore.
func (s *BadgerStore) DB() *badger.DB { return s.db }

// Close releases the ID leases and closes the database.
func (s *BadgerStore) Close() error {
	seqErr := s.seqs.release()
	if err := s.db.Close(); err != nil {
		return err
	}
	return seqErr
}
