package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
	"github.com/PrefaceCoding/BlogCloneProject/app/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService manages accounts and login sessions.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sessionTTL  time.Duration
	bcryptCost  int
	now         func() time.Time
}

// NewAuthService creates an AuthService issuing sessions valid for ttl.
// A cost of zero selects bcrypt.DefaultCost.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, ttl time.Duration, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  ttl,
		bcryptCost:  cost,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for session expiry.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// SessionTTL is how long a new session stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// CreateUser hashes the password and stores a new account.
func (s *AuthService) CreateUser(username, password string) (*models.User, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and returns the matching account.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a new session.
func (s *AuthService) Login(username, password string) (*models.Session, *models.User, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, nil, err
	}

	token, err := uuid.NewV4()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		Token:     token.String(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, user, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) error {
	return s.sessionRepo.Delete(token)
}

// UserForSession resolves a session token to its account. Expired sessions
// are deleted and reported as ErrSessionExpired.
func (s *AuthService) UserForSession(token string) (*models.User, error) {
	session, err := s.sessionRepo.Get(token)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.sessionRepo.Delete(token); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	return s.userRepo.GetByID(session.UserID)
}
