package auth

import (
	"context"
	"sync"
)

// CredentialRepo stores per-identity secrets. The in-memory implementation
// below is the production one for now: passwords reset to the shared
// default on every process restart.
type CredentialRepo interface {
	Check(ctx context.Context, email string, password string) (bool, error)
	Update(ctx context.Context, email string, password string) error
}

type InMemoryCredentialRepo struct {
	mu        sync.RWMutex
	passwords map[string]string
}

// NewInMemoryCredentialRepo seeds every authorized email with the shared
// default password.
func NewInMemoryCredentialRepo(emails []string, defaultPassword string) *InMemoryCredentialRepo {
	passwords := make(map[string]string, len(emails))
	for _, email := range emails {
		passwords[NormalizeEmail(email)] = defaultPassword
	}
	return &InMemoryCredentialRepo{passwords: passwords}
}

func (r *InMemoryCredentialRepo) Check(ctx context.Context, email string, password string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.passwords[NormalizeEmail(email)]
	return ok && stored == password, nil
}

func (r *InMemoryCredentialRepo) Update(ctx context.Context, email string, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passwords[NormalizeEmail(email)] = password
	return nil
}
