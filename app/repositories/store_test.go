package repositories

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// forEachStore runs fn against a fresh store of every backend.
func forEachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Helper()

	backends := map[string]func(t *testing.T) Store{
		DriverBadger: func(t *testing.T) Store {
			store, err := OpenBadger("", nil)
			require.NoError(t, err)
			return store
		},
		DriverSQLite: func(t *testing.T) Store {
			store, err := OpenSQLite(filepath.Join(t.TempDir(), "blog.db"))
			require.NoError(t, err)
			return store
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			t.Cleanup(func() { store.Close() })
			fn(t, store)
		})
	}
}

func seedUser(t *testing.T, store Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash", CreatedAt: base}
	require.NoError(t, store.Users().Create(user))
	return user
}

func seedPost(t *testing.T, store Store, author *models.User, title string, created time.Time, published *time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:      author.ID,
		Title:         title,
		Text:          title + " body",
		CreateDate:    created,
		PublishedDate: published,
	}
	require.NoError(t, store.Posts().Create(post))
	return post
}

func seedComment(t *testing.T, store Store, post *models.Post, author string, approved bool) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:          post.ID,
		Author:          author,
		Text:            "comment by " + author,
		CreateDate:      base,
		ApprovedComment: approved,
	}
	require.NoError(t, store.Comments().Create(comment))
	return comment
}

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestOpen(t *testing.T) {
	store, err := Open(DriverBadger, "", nil)
	require.NoError(t, err)
	require.IsType(t, &BadgerStore{}, store)
	require.NoError(t, store.Close())

	store, err = Open(DriverSQLite, filepath.Join(t.TempDir(), "blog.db"), nil)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open("postgres", "", nil)
	require.Error(t, err)
}

func TestConcurrentWrites(t *testing.T) {
	const writers = 50

	forEachStore(t, func(t *testing.T, store Store) {
		author := seedUser(t, store, "alice")

		// run calls fn from n goroutines at once and returns every error.
		run := func(n int, fn func(i int) error) []error {
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				errs []error
			)
			start := make(chan struct{})
			for i := 0; i < n; i++ {
				i := i
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					if err := fn(i); err != nil {
						mu.Lock()
						errs = append(errs, err)
						mu.Unlock()
					}
				}()
			}
			close(start)
			wg.Wait()
			return errs
		}

		ids := make([]int, writers)
		errs := run(writers, func(i int) error {
			post := &models.Post{AuthorID: author.ID, Title: fmt.Sprintf("post %d", i), Text: "body", CreateDate: base}
			err := store.Posts().Create(post)
			ids[i] = post.ID
			return err
		})
		require.Empty(t, errs)
		count, err := store.Posts().Count()
		require.NoError(t, err)
		assert.Equal(t, writers, count)
		assert.Len(t, uniqueInts(ids), writers)

		postID := ids[0]
		errs = run(writers, func(i int) error {
			return store.Comments().Create(&models.Comment{
				PostID:     postID,
				Author:     fmt.Sprintf("reader %d", i),
				Text:       "hi",
				CreateDate: base,
			})
		})
		require.Empty(t, errs)
		comments, err := store.Comments().ListByPost(postID)
		require.NoError(t, err)
		assert.Len(t, comments, writers)

		errs = run(writers, func(i int) error {
			return store.Users().Create(&models.User{Username: fmt.Sprintf("user%d", i), PasswordHash: "hash", CreatedAt: base})
		})
		require.Empty(t, errs)
		users, err := store.Users().List()
		require.NoError(t, err)
		assert.Len(t, users, writers+1)

		// Read-modify-write of one record: every writer must land.
		errs = run(8, func(i int) error {
			c := *comments[i]
			c.ApprovedComment = true
			return store.Comments().Update(&c)
		})
		require.Empty(t, errs)
		errs = run(8, func(i int) error {
			post, err := store.Posts().GetByID(postID)
			if err != nil {
				return err
			}
			post.PublishedDate = at(time.Duration(i) * time.Minute)
			return store.Posts().Update(post)
		})
		require.Empty(t, errs)
		approvedList, err := store.Comments().ListApprovedByPost(postID)
		require.NoError(t, err)
		assert.Len(t, approvedList, 8)
	})
}

func uniqueInts(values []int) map[int]struct{} {
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
