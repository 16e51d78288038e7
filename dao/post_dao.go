package dao

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bloggerz/model"
)

// PostDAO handles the posts collection.
type PostDAO struct {
	col *mongo.Collection
}

// NewPostDAO 创建一个新的 PostDAO 实例
func NewPostDAO(db *mongo.Database) *PostDAO {
	return &PostDAO{col: db.Collection("posts")}
}

// CreatePost 创建新文章
func (dao *PostDAO) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	res, err := dao.col.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid
	}
	return nil
}

// GetByID 根据 ID 获取文章
func (dao *PostDAO) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	err := dao.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces the editable fields of an existing post.
func (dao *PostDAO) UpdatePost(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()
	_, err := dao.col.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"title":      post.Title,
		"summary":    post.Summary,
		"content":    post.Content,
		"cover":      post.Cover,
		"updated_at": post.UpdatedAt,
	}})
	return err
}

// ListRecent returns the newest posts first, capped at limit.
func (dao *PostDAO) ListRecent(ctx context.Context, limit int64) ([]model.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := dao.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns one author's posts, newest first.
func (dao *PostDAO) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := dao.col.Find(ctx, bson.M{"author_id": authorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost 删除文章
func (dao *PostDAO) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	_, err := dao.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Like adds userID to the liker set and bumps the counter in one atomic
// update. The filter excludes posts the user already liked, so a repeated
// like matches nothing and the counter cannot drift under concurrency.
func (dao *PostDAO) Like(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	res, err := dao.col.UpdateOne(ctx,
		bson.M{"_id": id, "liked_by": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"liked_by": userID},
			"$inc":      bson.M{"likes": 1},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Unlike removes userID from the liker set and decrements the counter.
// A user who never liked the post matches nothing, keeping likes >= 0.
func (dao *PostDAO) Unlike(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	res, err := dao.col.UpdateOne(ctx,
		bson.M{"_id": id, "liked_by": userID},
		bson.M{
			"$pull": bson.M{"liked_by": userID},
			"$inc":  bson.M{"likes": -1},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
