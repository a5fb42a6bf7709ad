package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostListFilter narrows List results. Zero values mean "no filter";
// PublishedOnly is set for anonymous and non-admin callers.
type PostListFilter struct {
	CategoryID    string
	Tag           string
	AuthorID      string
	PublishedOnly bool
	Page          int
	PageSize      int
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Post, error)
	List(ctx context.Context, filter PostListFilter) ([]model.Post, int64, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	AppendComment(ctx context.Context, postID string, comment model.Comment) error
	IncrementViewCount(ctx context.Context, postID string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type mongoPostRepository struct {
	col *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) PostRepository {
	return &mongoPostRepository{col: db.Collection("posts")}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *model.Post) error {
	_, err := r.col.InsertOne(ctx, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("post slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("mongoPostRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoPostRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Post, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "_id", Value: idOrSlug}},
		bson.D{{Key: "slug", Value: idOrSlug}},
	}}}
	post := &model.Post{}
	err := r.col.FindOne(ctx, filter).Decode(post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoPostRepository.FindByIDOrSlug: %w", err)
	}
	return post, nil
}

func (r *mongoPostRepository) List(ctx context.Context, filter PostListFilter) ([]model.Post, int64, error) {
	query := bson.D{}
	if filter.CategoryID != "" {
		query = append(query, bson.E{Key: "category_id", Value: filter.CategoryID})
	}
	if filter.Tag != "" {
		query = append(query, bson.E{Key: "tags", Value: filter.Tag})
	}
	if filter.AuthorID != "" {
		query = append(query, bson.E{Key: "author_id", Value: filter.AuthorID})
	}
	if filter.PublishedOnly {
		query = append(query, bson.E{Key: "is_published", Value: true})
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("mongoPostRepository.List: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongoPostRepository.List: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("mongoPostRepository.List: decode: %w", err)
	}
	return posts, total, nil
}

func (r *mongoPostRepository) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: post.Title},
		{Key: "slug", Value: post.Slug},
		{Key: "content", Value: post.Content},
		{Key: "excerpt", Value: post.Excerpt},
		{Key: "category_id", Value: post.CategoryID},
		{Key: "tags", Value: post.Tags},
		{Key: "featured_image", Value: post.FeaturedImage},
		{Key: "is_published", Value: post.IsPublished},
		{Key: "updated_at", Value: post.UpdatedAt},
	}}}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: post.ID}}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("post slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("mongoPostRepository.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongoPostRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoPostRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.D{{Key: "slug", Value: slug}}
	if excludeID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongoPostRepository.SlugExists: %w", err)
	}
	return count > 0, nil
}

// AppendComment pushes onto the embedded comments array; the single-document
// update keeps the parent/child invariant without a transaction.
func (r *mongoPostRepository) AppendComment(ctx context.Context, postID string, comment model.Comment) error {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: comment}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: postID}}, update)
	if err != nil {
		return fmt.Errorf("mongoPostRepository.AppendComment: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoPostRepository) IncrementViewCount(ctx context.Context, postID string) error {
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "view_count", Value: 1}}}}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: postID}}, update)
	if err != nil {
		return fmt.Errorf("mongoPostRepository.IncrementViewCount: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoPostRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.D{{Key: "category_id", Value: categoryID}})
	if err != nil {
		return 0, fmt.Errorf("mongoPostRepository.CountByCategory: %w", err)
	}
	return count, nil
}
