package model

import (
	"time"
)

type Post struct {
	ID            string    `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Slug          string    `json:"slug" bson:"slug"`
	Content       string    `json:"content" bson:"content"`
	Excerpt       string    `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	CategoryID    string    `json:"category_id" bson:"category_id"`
	AuthorID      string    `json:"author_id" bson:"author_id"`
	Tags          []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	FeaturedImage string    `json:"featured_image,omitempty" bson:"featured_image,omitempty"`
	IsPublished   bool      `json:"is_published" bson:"is_published"`
	ViewCount     int64     `json:"view_count" bson:"view_count"`
	Comments      []Comment `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`

	// Denormalized for list/detail responses, never persisted.
	AuthorName   string `json:"author_name,omitempty" bson:"-"`
	CategoryName string `json:"category_name,omitempty" bson:"-"`
	CategorySlug string `json:"category_slug,omitempty" bson:"-"`
}

// Comment lives inside its parent Post document and is append-only; comments
// are never addressed or edited individually.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
