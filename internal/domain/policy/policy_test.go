package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
)

func TestAuthorizeRoleTable(t *testing.T) {
	custom := policy.Subject{UserID: "u1", Role: entity.RoleCustom}
	manager := policy.Subject{UserID: "u2", Role: entity.RoleManager}
	admin := policy.Subject{UserID: "u3", Role: entity.RoleAdmin}

	cases := []struct {
		action  policy.Action
		allowed []policy.Subject
		denied  []policy.Subject
	}{
		{policy.CreatePost, []policy.Subject{custom, manager}, []policy.Subject{admin}},
		{policy.DeleteComment, []policy.Subject{manager}, []policy.Subject{custom, admin}},
		{policy.DeleteUser, []policy.Subject{admin}, []policy.Subject{custom, manager}},
		{policy.ListUsers, []policy.Subject{admin}, []policy.Subject{custom, manager}},
		{policy.CreateComment, []policy.Subject{custom, manager, admin}, nil},
	}
	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			for _, s := range tc.allowed {
				assert.NoError(t, policy.Authorize(s, tc.action), s.Role)
			}
			for _, s := range tc.denied {
				err := policy.Authorize(s, tc.action)
				assert.ErrorIs(t, err, entity.ErrForbidden, s.Role)
			}
		})
	}
}

func TestAuthorizeRequiresIdentity(t *testing.T) {
	err := policy.Authorize(policy.Subject{Role: entity.RoleAdmin}, policy.ListUsers)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestAuthorizeOwner(t *testing.T) {
	alice := policy.Subject{UserID: "alice", Role: entity.RoleCustom}
	bobAdmin := policy.Subject{UserID: "bob", Role: entity.RoleAdmin}

	assert.NoError(t, policy.AuthorizeOwner(alice, policy.UpdatePost, "alice"))
	assert.ErrorIs(t, policy.AuthorizeOwner(bobAdmin, policy.UpdatePost, "alice"), entity.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeOwner(bobAdmin, policy.DeletePost, "alice"), entity.ErrForbidden)
	// Non owner-scoped actions ignore the owner argument.
	assert.NoError(t, policy.AuthorizeOwner(bobAdmin, policy.CreateComment, "alice"))
	assert.True(t, policy.OwnerScoped(policy.DeletePost))
	assert.False(t, policy.OwnerScoped(policy.DeleteComment))
}
