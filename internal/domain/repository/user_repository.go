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
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
}

type mongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{col: db.Collection("users")}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("mongoUserRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "FindByEmail")
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}}, "FindByID")
}

func (r *mongoUserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "reset_token_hash", Value: tokenHash}}, "FindByResetTokenHash")
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D, op string) (*model.User, error) {
	user := &model.User{}
	err := r.col.FindOne(ctx, filter).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "hashed_password", Value: hashedPassword},
			{Key: "updated_at", Value: time.Now()},
		}},
		// A used reset token is burned together with the password change.
		{Key: "$unset", Value: bson.D{
			{Key: "reset_token_hash", Value: ""},
			{Key: "reset_expires", Value: ""},
		}},
	}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return fmt.Errorf("mongoUserRepository.UpdatePassword: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "reset_token_hash", Value: tokenHash},
		{Key: "reset_expires", Value: expires},
		{Key: "updated_at", Value: time.Now()},
	}}}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return fmt.Errorf("mongoUserRepository.SetResetToken: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
