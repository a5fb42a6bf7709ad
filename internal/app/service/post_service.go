package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/common/security"
	"inkpress/internal/domain/model"
	"inkpress/internal/domain/repository"
	"inkpress/internal/platform/cache"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	views        *cache.ViewTracker
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	views *cache.ViewTracker,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		views:        views,
	}
}

type CreatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Category      string   `json:"category"` // id or slug
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image"`
	IsPublished   bool     `json:"is_published"`
}

type UpdatePostRequest struct {
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
	IsPublished   *bool     `json:"is_published,omitempty"`
}

type ListPostsRequest struct {
	Category string
	Tag      string
	Author   string
	Page     int
	PageSize int
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (s *PostService) List(ctx context.Context, actor *security.Actor, req ListPostsRequest) ([]model.Post, int64, error) {
	filter := repository.PostListFilter{
		Tag:      normalizeTag(req.Tag),
		AuthorID: req.Author,
		Page:     req.Page,
		PageSize: req.PageSize,
		// Drafts are a list-visibility concern, not an authorization one:
		// only admins see unpublished posts in listings.
		PublishedOnly: actor == nil || actor.Role != model.RoleAdmin,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if req.Category != "" {
		category, err := s.categoryRepo.FindByIDOrSlug(ctx, req.Category)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = category.ID
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.decorate(ctx, posts)
	return posts, total, nil
}

// Get returns a single post by id or slug and counts the view, deduped per
// client within the tracker's window.
func (s *PostService) Get(ctx context.Context, idOrSlug, clientKey string) (*model.Post, error) {
	post, err := s.postRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	if s.views.ShouldCount(ctx, post.ID, clientKey) {
		if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
			log.Printf("WARN: failed to bump view count for post %s: %v", post.ID, err)
		} else {
			post.ViewCount++
		}
	}

	posts := []model.Post{*post}
	s.decorate(ctx, posts)
	return &posts[0], nil
}

func (s *PostService) Create(ctx context.Context, actor *security.Actor, req CreatePostRequest) (*model.Post, error) {
	if d := security.CanPerform(actor, security.ActionCreate, security.Resource{Kind: security.KindPost}); !d.Allowed {
		return nil, d.Reason
	}
	if req.Title == "" || req.Content == "" || req.Category == "" {
		return nil, common.Errorf("title, content and category are required: %w", common.ErrBadRequest)
	}

	category, err := s.categoryRepo.FindByIDOrSlug(ctx, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("category %q does not exist: %w", req.Category, common.ErrValidation)
		}
		return nil, err
	}

	postSlug, err := uniqueSlug(ctx, req.Title, "", s.postRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &model.Post{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Slug:          postSlug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		CategoryID:    category.ID,
		AuthorID:      actor.ID,
		Tags:          normalizeTags(req.Tags),
		FeaturedImage: req.FeaturedImage,
		IsPublished:   req.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor *security.Actor, idOrSlug string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	res := security.Resource{Kind: security.KindPost, AuthorID: post.AuthorID}
	if d := security.CanPerform(actor, security.ActionUpdate, res); !d.Allowed {
		return nil, d.Reason
	}

	if req.Title != nil && *req.Title != post.Title {
		post.Title = *req.Title
		newSlug, err := uniqueSlug(ctx, post.Title, post.ID, s.postRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		post.Slug = newSlug
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Category != nil {
		category, err := s.categoryRepo.FindByIDOrSlug(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Errorf("category %q does not exist: %w", *req.Category, common.ErrValidation)
			}
			return nil, err
		}
		post.CategoryID = category.ID
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(*req.Tags)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor *security.Actor, idOrSlug string) error {
	post, err := s.postRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return err
	}
	res := security.Resource{Kind: security.KindPost, AuthorID: post.AuthorID}
	if d := security.CanPerform(actor, security.ActionDelete, res); !d.Allowed {
		return d.Reason
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// AddComment appends a comment to the post's embedded sequence.
func (s *PostService) AddComment(ctx context.Context, actor *security.Actor, idOrSlug string, req CommentRequest) (*model.Comment, error) {
	post, err := s.postRepo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	res := security.Resource{Kind: security.KindPost, AuthorID: post.AuthorID}
	if d := security.CanPerform(actor, security.ActionComment, res); !d.Allowed {
		return nil, d.Reason
	}
	if req.Content == "" {
		return nil, common.Errorf("comment content is required: %w", common.ErrBadRequest)
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		AuthorID:  actor.ID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.postRepo.AppendComment(ctx, post.ID, comment); err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}
	return &comment, nil
}

// decorate fills the denormalized author and category display fields. Lookup
// failures leave the fields empty rather than failing the read.
func (s *PostService) decorate(ctx context.Context, posts []model.Post) {
	users := map[string]*model.User{}
	categories := map[string]*model.Category{}

	for i := range posts {
		p := &posts[i]
		author, ok := users[p.AuthorID]
		if !ok {
			author, _ = s.userRepo.FindByID(ctx, p.AuthorID)
			users[p.AuthorID] = author
		}
		if author != nil {
			p.AuthorName = author.Name
		}

		category, ok := categories[p.CategoryID]
		if !ok {
			category, _ = s.categoryRepo.FindByIDOrSlug(ctx, p.CategoryID)
			categories[p.CategoryID] = category
		}
		if category != nil {
			p.CategoryName = category.Name
			p.CategorySlug = category.Slug
		}
	}
}

// Tags are a free-form namespace, so the general-purpose slug library is fine
// here; post and category slugs use the stricter in-house derivation.
func normalizeTag(tag string) string {
	if tag == "" {
		return ""
	}
	return slug.Make(tag)
}

func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := normalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
