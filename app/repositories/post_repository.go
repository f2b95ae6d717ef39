package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db   *badger.DB
	seqs *sequences
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB, seqs *sequences) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, seqs: seqs}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	id, err := r.seqs.next(PostSeqKey)
	if err != nil {
		return err
	}
	post.ID = id

	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post and all of its comments in a single transaction
func (r *BadgerPostRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := postKey(id)

		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Collect first; keys are deleted after the iterator is closed.
		var doomed [][]byte
		prefix := commentPrefix(id)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			doomed = append(doomed, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, ck := range doomed {
			var postID, commentID int
			if _, err := fmt.Sscanf(string(ck), CommentKeyPrefix+"%d:%d", &postID, &commentID); err != nil {
				return fmt.Errorf("malformed comment key %q: %w", ck, err)
			}
			if err := txn.Delete(ck); err != nil {
				return err
			}
			if err := txn.Delete(commentPostKey(commentID)); err != nil {
				return err
			}
		}

		return txn.Delete(key)
	})
}

// ListPublished returns posts whose publication date is not after now
func (r *BadgerPostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts, err := r.all()
	if err != nil {
		return nil, err
	}
	return published(posts, now), nil
}

// ListDrafts returns posts without a publication date
func (r *BadgerPostRepository) ListDrafts() ([]*models.Post, error) {
	posts, err := r.all()
	if err != nil {
		return nil, err
	}
	return drafts(posts), nil
}

// Count returns the number of stored posts
func (r *BadgerPostRepository) Count() (int, error) {
	return countPrefix(r.db, []byte(PostKeyPrefix))
}

func (r *BadgerPostRepository) all() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(PostKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func countPrefix(db *badger.DB, prefix []byte) (int, error) {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
