package repositories

import (
	"database/sql"
	"fmt"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

// SQLiteUserRepository implements UserRepository using SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// Create stores a new account. Usernames are unique.
func (r *SQLiteUserRepository) Create(user *models.User) error {
	res, err := r.db.Exec(
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}

// GetByID retrieves an account by ID
func (r *SQLiteUserRepository) GetByID(id int) (*models.User, error) {
	return r.get(`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id)
}

// GetByUsername retrieves an account by username
func (r *SQLiteUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.get(`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
}

// List returns every account in ID order
func (r *SQLiteUserRepository) List() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT id, username, password_hash, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepository) get(q string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.QueryRow(q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
