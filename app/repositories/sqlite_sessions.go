package repositories

import (
	"database/sql"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// SQLiteSessionRepository implements SessionRepository using SQLite
type SQLiteSessionRepository struct {
	db *sql.DB
}

// Create stores a new session
func (r *SQLiteSessionRepository) Create(session *models.Session) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		session.Token, session.UserID, session.ExpiresAt.UTC(),
	)
	return err
}

// Get retrieves a session by token
func (r *SQLiteSessionRepository) Get(token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(`SELECT token, user_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *SQLiteSessionRepository) Delete(token string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}
