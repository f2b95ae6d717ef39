package repositories

import (
	"database/sql"
	"fmt"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

const commentColumns = `id, post_id, author, text, create_date, approved_comment`

// SQLiteCommentRepository implements CommentRepository using SQLite
type SQLiteCommentRepository struct {
	db *sql.DB
}

// Create inserts a comment on an existing post
func (r *SQLiteCommentRepository) Create(comment *models.Comment) error {
	res, err := r.db.Exec(
		`INSERT INTO comments (post_id, author, text, create_date, approved_comment) VALUES (?, ?, ?, ?, ?)`,
		comment.PostID, comment.Author, comment.Text, comment.CreateDate.UTC(), comment.ApprovedComment,
	)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

// GetByID retrieves a comment by ID
func (r *SQLiteCommentRepository) GetByID(id int) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id).
		Scan(&c.ID, &c.PostID, &c.Author, &c.Text, &c.CreateDate, &c.ApprovedComment)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByPost retrieves all comments for a post in creation order
func (r *SQLiteCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	return r.query(`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY id`, postID)
}

// ListApprovedByPost retrieves the approved comments for a post
func (r *SQLiteCommentRepository) ListApprovedByPost(postID int) ([]*models.Comment, error) {
	return r.query(`SELECT `+commentColumns+` FROM comments WHERE post_id = ? AND approved_comment ORDER BY id`, postID)
}

// Update rewrites the comment's fields. The owning post cannot change.
func (r *SQLiteCommentRepository) Update(comment *models.Comment) error {
	res, err := r.db.Exec(
		`UPDATE comments SET author = ?, text = ?, approved_comment = ? WHERE id = ?`,
		comment.Author, comment.Text, comment.ApprovedComment, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", comment.ID, err)
	}
	return checkAffected(res)
}

// Delete deletes a comment by ID
func (r *SQLiteCommentRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return checkAffected(res)
}

// Count returns the number of stored comments
func (r *SQLiteCommentRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&n)
	return n, err
}

func (r *SQLiteCommentRepository) query(q string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Text, &c.CreateDate, &c.ApprovedComment); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
