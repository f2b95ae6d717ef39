package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

const postColumns = `id, author_id, title, text, create_date, published_date`

// SQLitePostRepository implements PostRepository using SQLite
type SQLitePostRepository struct {
	db *sql.DB
}

// Create inserts a new post and sets its ID
func (r *SQLitePostRepository) Create(post *models.Post) error {
	res, err := r.db.Exec(
		`INSERT INTO posts (author_id, title, text, create_date, published_date) VALUES (?, ?, ?, ?, ?)`,
		post.AuthorID, post.Title, post.Text, post.CreateDate.UTC(), nullTime(post.PublishedDate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(id)
	return nil
}

// GetByID retrieves a post by ID
func (r *SQLitePostRepository) GetByID(id int) (*models.Post, error) {
	row := r.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

// Update updates an existing post
func (r *SQLitePostRepository) Update(post *models.Post) error {
	res, err := r.db.Exec(
		`UPDATE posts SET author_id = ?, title = ?, text = ?, create_date = ?, published_date = ? WHERE id = ?`,
		post.AuthorID, post.Title, post.Text, post.CreateDate.UTC(), nullTime(post.PublishedDate), post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return checkAffected(res)
}

// Delete relies on ON DELETE CASCADE; the statement is atomic.
func (r *SQLitePostRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return checkAffected(res)
}

// ListPublished returns posts whose publication date is not after now
func (r *SQLitePostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts, err := r.query(`SELECT ` + postColumns + ` FROM posts WHERE published_date IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return published(posts, now), nil
}

// ListDrafts returns posts without a publication date
func (r *SQLitePostRepository) ListDrafts() ([]*models.Post, error) {
	posts, err := r.query(`SELECT ` + postColumns + ` FROM posts WHERE published_date IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return drafts(posts), nil
}

// Count returns the number of stored posts
func (r *SQLitePostRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

func (r *SQLitePostRepository) query(q string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	var (
		post      models.Post
		published sql.NullTime
	)
	if err := s.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Text, &post.CreateDate, &published); err != nil {
		return nil, err
	}
	if published.Valid {
		t := published.Time
		post.PublishedDate = &t
	}
	return &post, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
