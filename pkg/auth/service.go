package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eqsched/eqsched/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MinPasswordLength is the minimum length for a changed password.
const MinPasswordLength = 6

const sessionTTL = 12 * time.Hour

var (
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Session is the result of a successful login.
type Session struct {
	Token    string
	Identity Identity
}

type Service interface {
	Login(ctx context.Context, email string, password string) (Session, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, email, current, new, confirm string) error
	Authenticate(ctx context.Context, token string) (Identity, error)
}

type ServiceImpl struct {
	directory   *Directory
	credentials CredentialRepo
	tokenSecret []byte
	clock       utils.Clock

	mu      sync.Mutex
	revoked map[string]bool
}

func NewService(directory *Directory, credentials CredentialRepo, tokenSecret string, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		directory:   directory,
		credentials: credentials,
		tokenSecret: []byte(tokenSecret),
		clock:       clock,
		revoked:     map[string]bool{},
	}
}

// Login checks the allow-list before the credential store, so unknown
// emails are rejected without leaking whether a password would have matched.
func (s *ServiceImpl) Login(ctx context.Context, email string, password string) (Session, error) {
	identity, err := s.directory.IdentityOf(email)
	if err != nil {
		return Session{}, err
	}
	ok, err := s.credentials.Check(ctx, identity.Email, password)
	if err != nil {
		return Session{}, fmt.Errorf("failed to check credentials: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity.Email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	log.Infof("login for %s (%s)", identity.Email, identity.Role)
	return Session{Token: token, Identity: identity}, nil
}

// Logout revokes the token for the rest of the process lifetime.
func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.revoked[claims.ID] = true
	s.mu.Unlock()
	log.Infof("logout for %s", claims.Subject)
	return nil
}

// ChangePassword requires the current password and takes effect immediately
// for subsequent logins. Nothing is persisted across restarts.
func (s *ServiceImpl) ChangePassword(ctx context.Context, email, current, new, confirm string) error {
	identity, err := s.directory.IdentityOf(email)
	if err != nil {
		return err
	}
	ok, err := s.credentials.Check(ctx, identity.Email, current)
	if err != nil {
		return fmt.Errorf("failed to check credentials: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if new != confirm {
		return ErrPasswordMismatch
	}
	if len(new) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return s.credentials.Update(ctx, identity.Email, new)
}

// Authenticate validates a bearer token and resolves its identity against
// the directory. Role changes in configuration apply on next authentication.
func (s *ServiceImpl) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return Identity{}, err
	}
	s.mu.Lock()
	revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return Identity{}, ErrInvalidToken
	}
	return s.directory.IdentityOf(claims.Subject)
}

func (s *ServiceImpl) parseToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.tokenSecret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
