package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDirectory() *Directory {
	return NewDirectory(
		[]string{"sues@eqstrategist.com"},
		[]string{"joec@eqstrategist.com"},
		map[string]string{"doms@eqstrategist.com": "Dom"},
	)
}

func TestDirectory_IdentityOf(t *testing.T) {
	directory := testDirectory()

	tests := []struct {
		name    string
		email   string
		want    Identity
		wantErr error
	}{
		{
			name:  "admin",
			email: "sues@eqstrategist.com",
			want:  Identity{Email: "sues@eqstrategist.com", Role: RoleAdmin},
		},
		{
			name:  "viewer",
			email: "joec@eqstrategist.com",
			want:  Identity{Email: "joec@eqstrategist.com", Role: RoleViewer},
		},
		{
			name:  "trainer carries scoping name",
			email: "doms@eqstrategist.com",
			want:  Identity{Email: "doms@eqstrategist.com", Role: RoleTrainer, TrainerName: "Dom"},
		},
		{
			name:  "email is case-insensitive and trimmed",
			email: "  SueS@EQStrategist.com ",
			want:  Identity{Email: "sues@eqstrategist.com", Role: RoleAdmin},
		},
		{
			name:    "unknown email is rejected",
			email:   "intruder@example.com",
			wantErr: ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := directory.IdentityOf(tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, identity)
		})
	}
}

func TestIdentity_CanEdit(t *testing.T) {
	assert.True(t, Identity{Role: RoleAdmin}.CanEdit())
	assert.False(t, Identity{Role: RoleViewer}.CanEdit())
	assert.False(t, Identity{Role: RoleTrainer, TrainerName: "Dom"}.CanEdit())
}

func TestDirectory_Emails(t *testing.T) {
	emails := testDirectory().Emails()
	assert.ElementsMatch(t, []string{
		"sues@eqstrategist.com",
		"joec@eqstrategist.com",
		"doms@eqstrategist.com",
	}, emails)
}
