package database

import (
	"context"
	"fmt"
	"time"

	"inkpress/internal/platform/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect opens the Mongo client, verifies the connection, and ensures the
// uniqueness indexes the application relies on.
func Connect(cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return client, db, nil
}

func Close(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// ensureIndexes creates the indexes that back the data invariants: unique
// emails, unique slugs per collection, and the common list filters. The
// unique indexes are the final arbiter for concurrent duplicate writes.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{"users", bson.D{{Key: "email", Value: 1}}, true},
		{"users", bson.D{{Key: "reset_token_hash", Value: 1}}, false},

		{"categories", bson.D{{Key: "slug", Value: 1}}, true},
		{"categories", bson.D{{Key: "name", Value: 1}}, true},

		{"posts", bson.D{{Key: "slug", Value: 1}}, true},
		{"posts", bson.D{{Key: "category_id", Value: 1}}, false},
		{"posts", bson.D{{Key: "author_id", Value: 1}}, false},
		{"posts", bson.D{{Key: "tags", Value: 1}}, false},
		{"posts", bson.D{{Key: "created_at", Value: -1}}, false},
	}

	for _, ix := range indexes {
		im := mongo.IndexModel{Keys: ix.keys}
		if ix.unique {
			im.Options = options.Index().SetUnique(true)
		}
		if _, err := db.Collection(ix.col).Indexes().CreateOne(ctx, im); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.col, err)
		}
	}
	return nil
}
