package repositories

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db   *badger.DB
	seqs *sequences
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB, seqs *sequences) *BadgerUserRepository {
	return &BadgerUserRepository{db: db, seqs: seqs}
}

// Create stores a new account. Usernames are unique.
func (r *BadgerUserRepository) Create(user *models.User) error {
	id, err := r.seqs.next(UserSeqKey)
	if err != nil {
		return err
	}
	user.ID = id

	data, err := marshalEntity(user)
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(user.Username))
		if err == nil {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), indexValue(id))
	})
}

// GetByID retrieves an account by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getUser(txn, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves an account by username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := readIndex(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getUser(txn, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account in ID order
func (r *BadgerUserRepository) List() ([]*models.User, error) {
	var users []*models.User
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(UserKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user models.User
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &user)
			}); err != nil {
				return err
			}
			users = append(users, &user)
		}
		return nil
	})
	return users, err
}

func getUser(txn *badger.Txn, id int, user *models.User) error {
	item, err := txn.Get(userKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, user)
	})
}
