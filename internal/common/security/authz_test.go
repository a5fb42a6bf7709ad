package security

import (
	"errors"
	"testing"

	"inkpress/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPerform(t *testing.T) {
	owner := &Actor{ID: "u1", Role: "user"}
	other := &Actor{ID: "u2", Role: "user"}
	admin := &Actor{ID: "a1", Role: "admin"}

	tests := []struct {
		name   string
		actor  *Actor
		action Action
		res    Resource
		allow  bool
		reason error
	}{
		{"anonymous read post", nil, ActionRead, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},
		{"anonymous read category", nil, ActionRead, Resource{Kind: KindCategory}, true, nil},
		{"anonymous read comment", nil, ActionRead, Resource{Kind: KindComment}, true, nil},

		{"anonymous create post", nil, ActionCreate, Resource{Kind: KindPost}, false, common.ErrUnauthorized},
		{"anonymous comment", nil, ActionComment, Resource{Kind: KindPost, AuthorID: "u1"}, false, common.ErrUnauthorized},
		{"user create post", owner, ActionCreate, Resource{Kind: KindPost}, true, nil},
		{"user create comment", owner, ActionCreate, Resource{Kind: KindComment}, true, nil},
		{"user comment on someone's post", other, ActionComment, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},

		{"owner update post", owner, ActionUpdate, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},
		{"non-owner update post", other, ActionUpdate, Resource{Kind: KindPost, AuthorID: "u1"}, false, common.ErrForbidden},
		{"owner delete post", owner, ActionDelete, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},
		{"non-owner delete post", other, ActionDelete, Resource{Kind: KindPost, AuthorID: "u1"}, false, common.ErrForbidden},
		{"admin update someone's post", admin, ActionUpdate, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},
		{"admin delete someone's post", admin, ActionDelete, Resource{Kind: KindPost, AuthorID: "u1"}, true, nil},
		{"anonymous delete post", nil, ActionDelete, Resource{Kind: KindPost, AuthorID: "u1"}, false, common.ErrForbidden},

		{"user create category", owner, ActionCreate, Resource{Kind: KindCategory}, false, common.ErrForbidden},
		{"admin create category", admin, ActionCreate, Resource{Kind: KindCategory}, true, nil},
		{"anonymous create category", nil, ActionCreate, Resource{Kind: KindCategory}, false, common.ErrForbidden},
		{"user update category", owner, ActionUpdate, Resource{Kind: KindCategory}, false, common.ErrForbidden},
		{"admin update category", admin, ActionUpdate, Resource{Kind: KindCategory}, true, nil},
		{"user delete category", owner, ActionDelete, Resource{Kind: KindCategory}, false, common.ErrForbidden},
		{"admin delete category", admin, ActionDelete, Resource{Kind: KindCategory}, true, nil},

		// Default-deny: comments are append-only and never individually
		// updated or deleted, even by an admin.
		{"admin update comment", admin, ActionUpdate, Resource{Kind: KindComment}, false, common.ErrForbidden},
		{"owner delete comment", owner, ActionDelete, Resource{Kind: KindComment, AuthorID: "u1"}, false, common.ErrForbidden},
		{"unknown action", admin, Action("publish"), Resource{Kind: KindPost}, false, common.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanPerform(tt.actor, tt.action, tt.res)
			assert.Equal(t, tt.allow, d.Allowed)
			if tt.allow {
				assert.NoError(t, d.Reason)
			} else {
				require.Error(t, d.Reason)
				assert.True(t, errors.Is(d.Reason, tt.reason), "want %v, got %v", tt.reason, d.Reason)
			}
		})
	}
}

func TestCanPerformIsPure(t *testing.T) {
	actor := &Actor{ID: "u1", Role: "user"}
	res := Resource{Kind: KindPost, AuthorID: "u1"}
	first := CanPerform(actor, ActionUpdate, res)
	second := CanPerform(actor, ActionUpdate, res)
	assert.Equal(t, first, second)
	assert.Equal(t, "u1", actor.ID)
	assert.Equal(t, "u1", res.AuthorID)
}
