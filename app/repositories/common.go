package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix        = "post:"
	CommentKeyPrefix     = "comment:"
	CommentPostKeyPrefix = "comment-post:"
	UserKeyPrefix        = "user:"
	UsernameKeyPrefix    = "username:"
	SessionKeyPrefix     = "session:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"
)

// Zero padding keeps badger's lexicographic key order equal to numeric order.
func postKey(id int) []byte { return []byte(fmt.Sprintf("%s%010d", PostKeyPrefix, id)) }

func commentPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", CommentKeyPrefix, postID))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", CommentKeyPrefix, postID, id))
}

func commentPostKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", CommentPostKeyPrefix, id))
}

func userKey(id int) []byte { return []byte(fmt.Sprintf("%s%010d", UserKeyPrefix, id)) }

func usernameKey(name string) []byte { return []byte(UsernameKeyPrefix + name) }

func sessionKey(token string) []byte { return []byte(SessionKeyPrefix + token) }

// seqBandwidth is how many IDs a sequence leases per write.
const seqBandwidth = 100

// maxConflictRetries bounds how often a transaction is replayed after
// badger.ErrConflict.
const maxConflictRetries = 10

// sequences hands out IDs from one badger.Sequence per key. Sequences are
// leased on first use so opening a store for backup or restore writes nothing.
type sequences struct {
	db   *badger.DB
	mu   sync.Mutex
	seqs map[string]*badger.Sequence
}

func newSequences(db *badger.DB) *sequences {
	return &sequences{db: db, seqs: make(map[string]*badger.Sequence)}
}

// next returns the next ID for key. IDs start at 1.
func (s *sequences) next(key string) (int, error) {
	s.mu.Lock()
	seq, ok := s.seqs[key]
	if !ok {
		var err error
		seq, err = s.db.GetSequence([]byte(key), seqBandwidth)
		if err != nil {
			s.mu.Unlock()
			return 0, fmt.Errorf("failed to get sequence %q: %w", key, err)
		}
		s.seqs[key] = seq
	}
	s.mu.Unlock()

	for {
		id, err := seq.Next()
		if err != nil {
			return 0, fmt.Errorf("failed to advance sequence %q: %w", key, err)
		}
		if id > 0 {
			return int(id), nil
		}
	}
}

// release returns unused leases so the next open continues without a gap.
func (s *sequences) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for key, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release sequence %q: %w", key, err))
		}
		delete(s.seqs, key)
	}
	return errors.Join(errs...)
}

// update runs fn in a read-write transaction, replaying it when a
// concurrent transaction committed a key fn read.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// readIndex reads an int stored under key, mapping a missing key to ErrNotFound.
func readIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt index %q", key)
		}
		id = int(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

func indexValue(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// published keeps the posts visible at now, newest publication first.
func published(posts []*models.Post, now time.Time) []*models.Post {
	var out []*models.Post
	for _, p := range posts {
		if p.IsPublished(now) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedDate.After(*out[j].PublishedDate)
	})
	return out
}

// drafts keeps the unpublished posts, oldest first.
func drafts(posts []*models.Post) []*models.Post {
	var out []*models.Post
	for _, p := range posts {
		if p.IsDraft() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreateDate.Before(out[j].CreateDate)
	})
	return out
}

func approved(comments []*models.Comment) []*models.Comment {
	var out []*models.Comment
	for _, c := range comments {
		if c.ApprovedComment {
			out = append(out, c)
		}
	}
	return out
}
