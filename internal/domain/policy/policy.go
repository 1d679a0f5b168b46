// Package policy holds the fixed table of role-gated actions.
package policy

import (
	"slices"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// Subject is the authenticated caller as asserted by a verified token.
type Subject struct {
	UserID string
	Role   entity.Role
}

type Action string

const (
	CreatePost    Action = "post:create"
	UpdatePost    Action = "post:update"
	DeletePost    Action = "post:delete"
	CreateComment Action = "comment:create"
	ListComments  Action = "comment:list"
	DeleteComment Action = "comment:delete"
	DeleteUser    Action = "user:delete"
	ListUsers     Action = "user:list"
)

type rule struct {
	roles  []entity.Role // empty means any authenticated caller
	owner  bool
	denied string
}

var rules = map[Action]rule{
	CreatePost:    {roles: []entity.Role{entity.RoleCustom, entity.RoleManager}, denied: "admin can not create a post"},
	UpdatePost:    {owner: true, denied: "only the author can update this post"},
	DeletePost:    {owner: true, denied: "only the author can delete this post"},
	CreateComment: {},
	ListComments:  {},
	DeleteComment: {roles: []entity.Role{entity.RoleManager}, denied: "only managers can delete comments"},
	DeleteUser:    {roles: []entity.Role{entity.RoleAdmin}, denied: "only admin can delete users"},
	ListUsers:     {roles: []entity.Role{entity.RoleAdmin}, denied: "only for admins are allowed"},
}

// Authorize checks the role requirement of action. Ownership checks are left
// to AuthorizeOwner since the owner is not always known up front.
func Authorize(sub Subject, action Action) error {
	if sub.UserID == "" {
		return entity.ErrUnauthorized
	}
	r, ok := rules[action]
	if !ok {
		return entity.Forbidden("unknown action")
	}
	if len(r.roles) > 0 && !slices.Contains(r.roles, sub.Role) {
		return entity.Forbidden(r.denied)
	}
	return nil
}

// AuthorizeOwner checks role and, for owner-scoped actions, that the caller
// is ownerID.
func AuthorizeOwner(sub Subject, action Action, ownerID string) error {
	if err := Authorize(sub, action); err != nil {
		return err
	}
	if rules[action].owner && sub.UserID != ownerID {
		return entity.Forbidden(rules[action].denied)
	}
	return nil
}

// OwnerScoped reports whether action is constrained to the resource owner.
func OwnerScoped(action Action) bool { return rules[action].owner }
