package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/common/security"
	"inkpress/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryServiceFixture() (*CategoryService, *fakeCategoryRepo, *fakePostRepo) {
	categoryRepo := newFakeCategoryRepo()
	postRepo := newFakePostRepo()
	return NewCategoryService(categoryRepo, postRepo), categoryRepo, postRepo
}

func TestCreateCategoryAdminOnly(t *testing.T) {
	svc, _, _ := newCategoryServiceFixture()
	admin := &security.Actor{ID: "a1", Role: model.RoleAdmin}
	user := &security.Actor{ID: "u1", Role: model.RoleUser}

	_, err := svc.Create(context.Background(), user, CreateCategoryRequest{Name: "News"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	_, err = svc.Create(context.Background(), nil, CreateCategoryRequest{Name: "News"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	category, err := svc.Create(context.Background(), admin, CreateCategoryRequest{Name: "News & Views"})
	require.NoError(t, err)
	assert.Equal(t, "news-views", category.Slug)
}

func TestCategorySlugCollision(t *testing.T) {
	svc, _, _ := newCategoryServiceFixture()
	admin := &security.Actor{ID: "a1", Role: model.RoleAdmin}

	first, err := svc.Create(context.Background(), admin, CreateCategoryRequest{Name: "Go Tips"})
	require.NoError(t, err)
	assert.Equal(t, "go-tips", first.Slug)

	// Different name, same derived slug.
	second, err := svc.Create(context.Background(), admin, CreateCategoryRequest{Name: "Go, Tips!"})
	require.NoError(t, err)
	assert.Equal(t, "go-tips-2", second.Slug)
}

func TestUpdateCategoryRename(t *testing.T) {
	svc, _, _ := newCategoryServiceFixture()
	admin := &security.Actor{ID: "a1", Role: model.RoleAdmin}

	category, err := svc.Create(context.Background(), admin, CreateCategoryRequest{Name: "Old Name"})
	require.NoError(t, err)
	require.Equal(t, "old-name", category.Slug)

	newName := "Fresh Name"
	updated, err := svc.Update(context.Background(), admin, category.Slug, UpdateCategoryRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Name", updated.Name)
	assert.Equal(t, "fresh-name", updated.Slug, "slug follows the name")

	// Description-only update leaves the slug alone.
	desc := "a description"
	updated, err = svc.Update(context.Background(), admin, updated.Slug, UpdateCategoryRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "fresh-name", updated.Slug)

	user := &security.Actor{ID: "u1", Role: model.RoleUser}
	_, err = svc.Update(context.Background(), user, updated.Slug, UpdateCategoryRequest{Name: &newName})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
}

func TestDeleteCategory(t *testing.T) {
	svc, _, postRepo := newCategoryServiceFixture()
	admin := &security.Actor{ID: "a1", Role: model.RoleAdmin}
	user := &security.Actor{ID: "u1", Role: model.RoleUser}

	category, err := svc.Create(context.Background(), admin, CreateCategoryRequest{Name: "Doomed"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), user, category.Slug)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	// A category still referenced by a post cannot be removed.
	require.NoError(t, postRepo.Create(context.Background(), &model.Post{
		ID: "p1", Title: "In Doomed", Slug: "in-doomed", CategoryID: category.ID,
		AuthorID: "u1", CreatedAt: time.Now(),
	}))
	err = svc.Delete(context.Background(), admin, category.Slug)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))

	require.NoError(t, postRepo.Delete(context.Background(), "p1"))
	require.NoError(t, svc.Delete(context.Background(), admin, category.Slug))

	err = svc.Delete(context.Background(), admin, category.Slug)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
