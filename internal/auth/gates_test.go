package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGates(t *testing.T) {
	plain := &Principal{ID: "u1", IsActive: true}
	owner := &Principal{ID: "u2", IsActive: true, IsBusinessOwner: true}
	admin := &Principal{ID: "u3", IsActive: true, IsAdmin: true}
	inactive := &Principal{ID: "u4"}

	tests := []struct {
		name string
		gate Gate
		p    *Principal
		ok   bool
	}{
		{"active passes", RequireActive, plain, true},
		{"inactive refused", RequireActive, inactive, false},
		{"nil refused", RequireActive, nil, false},
		{"owner passes", RequireBusinessOwner, owner, true},
		{"plain is not owner", RequireBusinessOwner, plain, false},
		{"admin is not owner", RequireBusinessOwner, admin, false},
		{"admin passes", RequireAdmin, admin, true},
		{"owner is not admin", RequireAdmin, owner, false},
		{"nil is not admin", RequireAdmin, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gate(tt.p)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
			assert.False(t, IsAuthenticationError(err))
		})
	}
}

func TestGates_CapabilityMessage(t *testing.T) {
	err := RequireBusinessOwner(&Principal{ID: "u1", IsActive: true})

	var fe *ForbiddenError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "business owner access", fe.Capability)
	assert.Equal(t, "not authorized: business owner access required", fe.Message())
}

func TestRequireOwner(t *testing.T) {
	u1 := &Principal{ID: "u1", IsActive: true}
	admin := &Principal{ID: "a1", IsActive: true, IsAdmin: true}

	assert.NoError(t, RequireOwner(u1, "u1", "deal"))
	assert.ErrorIs(t, RequireOwner(u1, "u2", "deal"), ErrForbidden)
	assert.ErrorIs(t, RequireOwner(u1, "", "deal"), ErrForbidden)
	assert.ErrorIs(t, RequireOwner(nil, "u1", "deal"), ErrForbidden)
	assert.ErrorIs(t, RequireOwner(admin, "u1", "deal"), ErrForbidden)

	assert.NoError(t, RequireOwnerOrAdmin(admin, "u1", "review"))
	assert.ErrorIs(t, RequireOwnerOrAdmin(u1, "u2", "review"), ErrForbidden)

	var fe *ForbiddenError
	require.True(t, errors.As(RequireOwner(u1, "u2", "business"), &fe))
	assert.Equal(t, "ownership of this business", fe.Capability)
}
