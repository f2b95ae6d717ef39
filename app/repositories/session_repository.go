package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Entries carry a badger TTL so expired sessions are dropped by the store.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

// Create stores the session until its expiry.
func (r *BadgerSessionRepository) Create(session *models.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session already expired at %s", session.ExpiresAt)
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(session.Token), data).WithTTL(ttl))
	})
}

// Get retrieves a session by token
func (r *BadgerSessionRepository) Get(token string) (*models.Session, error) {
	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *BadgerSessionRepository) Delete(token string) error {
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
}
