package repositories

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store on a SQLite database. Comments are removed
// with their post by the foreign key's ON DELETE CASCADE.
type SQLiteStore struct {
	db       *sql.DB
	posts    *SQLitePostRepository
	comments *SQLiteCommentRepository
	users    *SQLiteUserRepository
	sessions *SQLiteSessionRepository
}

// OpenSQLite creates or opens the database file at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		posts:    &SQLitePostRepository{db: db},
		comments: &SQLiteCommentRepository{db: db},
		users:    &SQLiteUserRepository{db: db},
		sessions: &SQLiteSessionRepository{db: db},
	}, nil
}

// Repository accessors satisfying Store.
func (s *SQLiteStore) Posts() PostRepository       { return s.posts }
func (s *SQLiteStore) Comments() CommentRepository { return s.comments }
func (s *SQLiteStore) Users() UserRepository       { return s.users }
func (s *SQLiteStore) Sessions() SessionRepository { return s.sessions }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
