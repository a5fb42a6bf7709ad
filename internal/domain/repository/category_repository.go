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

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

type mongoCategoryRepository struct {
	col *mongo.Collection
}

func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{col: db.Collection("categories")}
}

func (r *mongoCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	_, err := r.col.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("category name or slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("mongoCategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoCategoryRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Category, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "_id", Value: idOrSlug}},
		bson.D{{Key: "slug", Value: idOrSlug}},
	}}}
	category := &model.Category{}
	err := r.col.FindOne(ctx, filter).Decode(category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoCategoryRepository.FindByIDOrSlug: %w", err)
	}
	return category, nil
}

func (r *mongoCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongoCategoryRepository.List: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []model.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("mongoCategoryRepository.List: decode: %w", err)
	}
	return categories, nil
}

func (r *mongoCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: category.Name},
		{Key: "slug", Value: category.Slug},
		{Key: "description", Value: category.Description},
		{Key: "updated_at", Value: category.UpdatedAt},
	}}}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: category.ID}}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("category name or slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("mongoCategoryRepository.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoCategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongoCategoryRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoCategoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.D{{Key: "slug", Value: slug}}
	if excludeID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongoCategoryRepository.SlugExists: %w", err)
	}
	return count > 0, nil
}
