package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	Role           string    `json:"role" bson:"role"`
	ResetTokenHash string    `json:"-" bson:"reset_token_hash,omitempty"`
	ResetExpires   time.Time `json:"-" bson:"reset_expires,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
