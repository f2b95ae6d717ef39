// Package mock provides an in-memory repositories.Store for service and
// controller tests.
package mock

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

// Store keeps every entity in maps guarded by one mutex, so a post delete
// and its comment cascade happen under the same lock.
type Store struct {
	mutex sync.RWMutex

	posts    map[int]models.Post
	comments map[int]models.Comment
	users    map[int]models.User
	sessions map[string]models.Session

	nextPostID    int
	nextCommentID int
	nextUserID    int
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.posts = make(map[int]models.Post)
	s.comments = make(map[int]models.Comment)
	s.users = make(map[int]models.User)
	s.sessions = make(map[string]models.Session)
	s.nextPostID, s.nextCommentID, s.nextUserID = 1, 1, 1
}

func (s *Store) Posts() repositories.PostRepository       { return (*PostRepository)(s) }
func (s *Store) Comments() repositories.CommentRepository { return (*CommentRepository)(s) }
func (s *Store) Users() repositories.UserRepository       { return (*UserRepository)(s) }
func (s *Store) Sessions() repositories.SessionRepository { return (*SessionRepository)(s) }
func (s *Store) Close() error                             { return nil }

type PostRepository Store

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextPostID
	m.nextPostID++
	m.posts[post.ID] = *post
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = *post
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range m.list() {
		if p.IsPublished(now) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedDate.After(*out[j].PublishedDate)
	})
	return out, nil
}

func (m *PostRepository) ListDrafts() ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range m.list() {
		if p.IsDraft() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreateDate.Before(out[j].CreateDate)
	})
	return out, nil
}

func (m *PostRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.posts), nil
}

// list returns copies of all posts in ID order.
func (m *PostRepository) list() []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		p := p
		posts = append(posts, &p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

type CommentRepository Store

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.nextCommentID
	m.nextCommentID++
	m.comments[comment.ID] = *comment
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &comment, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			c := c
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) ListApprovedByPost(postID int) ([]*models.Comment, error) {
	all, _ := m.ListByPost(postID)
	var out []*models.Comment
	for _, c := range all {
		if c.ApprovedComment {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.PostID = existing.PostID
	m.comments[comment.ID] = *comment
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments), nil
}

type UserRepository Store

func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, repositories.ErrDuplicate)
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	m.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List() ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type SessionRepository Store

func (m *SessionRepository) Create(session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m *SessionRepository) Get(token string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (m *SessionRepository) Delete(token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, token)
	return nil
}
