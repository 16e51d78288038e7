package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the public slice of a user embedded into post responses.
type Author struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// Post 文章模型
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Summary   string             `bson:"summary" json:"summary"`
	Content   string             `bson:"content" json:"content"` // rich text HTML from the editor
	Cover     string             `bson:"cover" json:"cover"`     // "uploads/<name>"
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Likes     int                `bson:"likes" json:"likes"`
	LikedBy   []string           `bson:"liked_by" json:"liked_by"` // user ids, set semantics
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Author is populated from the users collection on reads, not stored.
	Author *Author `bson:"-" json:"author,omitempty"`
}
