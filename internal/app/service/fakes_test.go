package service

import (
	"context"
	"sync"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/domain/model"
	"inkpress/internal/domain/repository"
)

// In-memory repository fakes. They mirror the store contract the Mongo
// implementations provide, including uniqueness enforcement on slugs and
// emails, so collision handling can be exercised without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	u.ResetTokenHash = ""
	u.ResetExpires = time.Time{}
	return nil
}

func (r *fakeUserRepo) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetExpires = expires
	return nil
}

func (r *fakeUserRepo) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*model.Category{}}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == category.Slug || c.Name == category.Name {
			return common.ErrConflict
		}
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ID == idOrSlug || c.Slug == idOrSlug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Category{}
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*model.Post{}}
}

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return common.ErrConflict
		}
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == idOrSlug || p.Slug == idOrSlug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakePostRepo) List(ctx context.Context, filter repository.PostListFilter) ([]model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Post{}
	for _, p := range r.posts {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.PublishedOnly && !p.IsPublished {
			continue
		}
		if filter.Tag != "" {
			found := false
			for _, t := range p.Tags {
				if t == filter.Tag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) AppendComment(ctx context.Context, postID string, comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return common.ErrNotFound
	}
	p.Comments = append(p.Comments, comment)
	return nil
}

func (r *fakePostRepo) IncrementViewCount(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return common.ErrNotFound
	}
	p.ViewCount++
	return nil
}

func (r *fakePostRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // "to|subject|body"
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject+"|"+body)
	return nil
}
