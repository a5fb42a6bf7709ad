package security

import (
	"inkpress/internal/common"
	"inkpress/internal/domain/model"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionComment Action = "comment"
)

type ResourceKind string

const (
	KindPost     ResourceKind = "post"
	KindCategory ResourceKind = "category"
	KindComment  ResourceKind = "comment"
)

// Actor is the resolved identity attempting an action. A nil *Actor is an
// anonymous caller.
type Actor struct {
	ID   string
	Role string
}

// Resource is a snapshot of the thing being acted on. AuthorID is empty for
// resources without an owner (categories) and for create, where the resource
// does not exist yet.
type Resource struct {
	Kind     ResourceKind
	AuthorID string
}

type Decision struct {
	Allowed bool
	Reason  error
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}

// CanPerform decides whether actor may perform action on res. It is pure:
// both actor and resource must already be resolved by the caller, and a
// resource that vanished between lookup and evaluation is the caller's
// NotFound, never an input here.
//
// Rules, first match wins:
//  1. read is public
//  2. creating posts or comments requires any authenticated identity
//  3. updating or deleting a post requires the author or an admin
//  4. category writes require an admin
//  5. everything else is denied
func CanPerform(actor *Actor, action Action, res Resource) Decision {
	if action == ActionRead {
		return allow()
	}

	switch {
	case action == ActionCreate && (res.Kind == KindPost || res.Kind == KindComment),
		action == ActionComment && res.Kind == KindPost:
		if actor == nil {
			return deny(common.ErrUnauthorized)
		}
		return allow()

	case (action == ActionUpdate || action == ActionDelete) && res.Kind == KindPost:
		if actor == nil {
			return deny(common.ErrForbidden)
		}
		if actor.Role == model.RoleAdmin || (res.AuthorID != "" && actor.ID == res.AuthorID) {
			return allow()
		}
		return deny(common.ErrForbidden)

	case res.Kind == KindCategory &&
		(action == ActionCreate || action == ActionUpdate || action == ActionDelete):
		if actor != nil && actor.Role == model.RoleAdmin {
			return allow()
		}
		return deny(common.ErrForbidden)
	}

	return deny(common.ErrForbidden)
}
