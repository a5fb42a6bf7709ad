package service

import (
	"context"
	"fmt"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/common/security"
	"inkpress/internal/domain/model"
	"inkpress/internal/domain/repository"

	"github.com/google/uuid"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	postRepo repository.PostRepository,
) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, postRepo: postRepo}
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, idOrSlug string) (*model.Category, error) {
	return s.categoryRepo.FindByIDOrSlug(ctx, idOrSlug)
}

func (s *CategoryService) Create(ctx context.Context, actor *security.Actor, req CreateCategoryRequest) (*model.Category, error) {
	if d := security.CanPerform(actor, security.ActionCreate, security.Resource{Kind: security.KindCategory}); !d.Allowed {
		return nil, d.Reason
	}
	if req.Name == "" {
		return nil, common.Errorf("category name is required: %w", common.ErrBadRequest)
	}

	slug, err := uniqueSlug(ctx, req.Name, "", s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *security.Actor, idOrSlug string, req UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if d := security.CanPerform(actor, security.ActionUpdate, security.Resource{Kind: security.KindCategory}); !d.Allowed {
		return nil, d.Reason
	}

	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		// The slug is a function of the name; a rename re-derives it.
		slug, err := uniqueSlug(ctx, category.Name, category.ID, s.categoryRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete refuses to orphan posts: a category still referenced by any post
// cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, actor *security.Actor, idOrSlug string) error {
	category, err := s.categoryRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if d := security.CanPerform(actor, security.ActionDelete, security.Resource{Kind: security.KindCategory}); !d.Allowed {
		return d.Reason
	}

	inUse, err := s.postRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("failed to count posts in category: %w", err)
	}
	if inUse > 0 {
		return common.Errorf("category %q still has %d posts: %w", category.Name, inUse, common.ErrConflict)
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}
