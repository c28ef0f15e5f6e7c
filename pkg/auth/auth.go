package auth

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleViewer  Role = "viewer"
	RoleTrainer Role = "trainer"
)

var ErrUnauthorized = errors.New("identity is not authorized")

// Identity is an authenticated user. TrainerName is set only for the
// trainer role and scopes visible records to that trainer.
type Identity struct {
	Email       string
	Role        Role
	TrainerName string
}

// CanEdit reports whether the identity may mutate events. Viewer and
// trainer roles are read-only.
func (i Identity) CanEdit() bool {
	return i.Role == RoleAdmin
}

// Directory is the closed allow-list of identities, split into three
// disjoint role sets.
type Directory struct {
	admins   map[string]bool
	viewers  map[string]bool
	trainers map[string]string
}

func NewDirectory(admins []string, viewers []string, trainers map[string]string) *Directory {
	d := &Directory{
		admins:   make(map[string]bool, len(admins)),
		viewers:  make(map[string]bool, len(viewers)),
		trainers: make(map[string]string, len(trainers)),
	}
	for _, email := range admins {
		d.admins[NormalizeEmail(email)] = true
	}
	for _, email := range viewers {
		d.viewers[NormalizeEmail(email)] = true
	}
	for email, trainer := range trainers {
		d.trainers[NormalizeEmail(email)] = trainer
	}
	return d
}

// IdentityOf resolves an email to its role. Unknown emails get
// ErrUnauthorized: no session is ever created for them.
func (d *Directory) IdentityOf(email string) (Identity, error) {
	normalized := NormalizeEmail(email)
	if d.admins[normalized] {
		return Identity{Email: normalized, Role: RoleAdmin}, nil
	}
	if d.viewers[normalized] {
		return Identity{Email: normalized, Role: RoleViewer}, nil
	}
	if trainer, ok := d.trainers[normalized]; ok {
		return Identity{Email: normalized, Role: RoleTrainer, TrainerName: trainer}, nil
	}
	return Identity{}, ErrUnauthorized
}

// Emails returns every authorized email, used to seed the credential store.
func (d *Directory) Emails() []string {
	emails := make([]string, 0, len(d.admins)+len(d.viewers)+len(d.trainers))
	for email := range d.admins {
		emails = append(emails, email)
	}
	for email := range d.viewers {
		emails = append(emails, email)
	}
	for email := range d.trainers {
		emails = append(emails, email)
	}
	return emails
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
