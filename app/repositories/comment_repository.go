package repositories

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed under their post so a post's comments are one prefix
// scan in creation order; comment-post:<id> maps a comment back to its post.
type BadgerCommentRepository struct {
	db   *badger.DB
	seqs *sequences
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB, seqs *sequences) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, seqs: seqs}
}

// Create creates a new comment on an existing post
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	id, err := r.seqs.next(CommentSeqKey)
	if err != nil {
		return err
	}
	comment.ID = id

	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	// The post is read inside the transaction so a concurrent delete of it
	// forces a replay that sees the post gone.
	return update(r.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(comment.PostID)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		if err := txn.Set(commentKey(comment.PostID, comment.ID), data); err != nil {
			return err
		}
		return txn.Set(commentPostKey(comment.ID), indexValue(comment.PostID))
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment

	err := r.db.View(func(txn *badger.Txn) error {
		postID, err := readIndex(txn, commentPostKey(id))
		if err != nil {
			return err
		}
		item, err := txn.Get(commentKey(postID, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
	})

	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := commentPrefix(postID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListApprovedByPost retrieves the approved comments for a post
func (r *BadgerCommentRepository) ListApprovedByPost(postID int) ([]*models.Comment, error) {
	comments, err := r.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	return approved(comments), nil
}

// Update updates an existing comment. The owning post cannot change.
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return update(r.db, func(txn *badger.Txn) error {
		postID, err := readIndex(txn, commentPostKey(comment.ID))
		if err != nil {
			return err
		}
		comment.PostID = postID

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(commentKey(postID, comment.ID), data)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		postID, err := readIndex(txn, commentPostKey(id))
		if err != nil {
			return err
		}
		if err := txn.Delete(commentKey(postID, id)); err != nil {
			return err
		}
		return txn.Delete(commentPostKey(id))
	})
}

// Count returns the number of stored comments
func (r *BadgerCommentRepository) Count() (int, error) {
	return countPrefix(r.db, []byte(CommentPostKeyPrefix))
}
