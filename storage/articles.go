package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const articlesCollection = "articles"

// Articles is the repository over the articles collection.
type Articles struct {
	coll *mongo.Collection
}

func NewArticles(db *mongo.Database) *Articles {
	return &Articles{coll: db.Collection(articlesCollection)}
}

// ListArticlesOptions pages and sorts the article list. Sort maps field
// names to 1 or -1; nil means insertion order.
type ListArticlesOptions struct {
	Limit int64
	Skip  int64
	Sort  map[string]int
}

func (a *Articles) List(ctx context.Context, opts ListArticlesOptions) ([]Article, error) {
	findOpts := options.Find()
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts = findOpts.SetSkip(opts.Skip)
	}
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for field, dir := range opts.Sort {
			sort = append(sort, bson.E{Key: field, Value: dir})
		}
		findOpts = findOpts.SetSort(sort)
	}

	cursor, err := a.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	var articles []Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decoding articles: %w", err)
	}
	return articles, nil
}

func (a *Articles) FindByID(ctx context.Context, id string) (*Article, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var article Article
	if err := a.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&article); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding article by id: %w", err)
	}
	return &article, nil
}

func (a *Articles) Insert(ctx context.Context, article *Article) error {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	result, err := a.coll.InsertOne(ctx, article)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		article.ID = oid
	}
	return nil
}

// InsertMany stores a batch of articles, stamping timestamps on each.
// Returns the number inserted.
func (a *Articles) InsertMany(ctx context.Context, articles []Article) (int64, error) {
	if len(articles) == 0 {
		return 0, ErrEmptyFilter
	}

	now := time.Now()
	docs := make([]any, len(articles))
	for i := range articles {
		articles[i].CreatedAt = now
		articles[i].UpdatedAt = now
		docs[i] = articles[i]
	}

	result, err := a.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("inserting articles: %w", err)
	}
	return int64(len(result.InsertedIDs)), nil
}

func (a *Articles) Update(ctx context.Context, id string, set bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if len(set) == 0 {
		return ErrEmptyFilter
	}

	update := bson.M{}
	for k, v := range set {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	result, err := a.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMany applies a $set to every article matching filter, refreshing
// updatedAt. Returns matched and modified counts.
func (a *Articles) UpdateMany(ctx context.Context, filter bson.M, set bson.M) (matched, modified int64, err error) {
	if len(filter) == 0 || len(set) == 0 {
		return 0, 0, ErrEmptyFilter
	}

	update := bson.M{}
	for k, v := range set {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	result, err := a.coll.UpdateMany(ctx, filter, bson.M{"$set": update})
	if err != nil {
		return 0, 0, fmt.Errorf("updating articles: %w", err)
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

// Replace swaps the whole document matching filter for the given article,
// preserving the original CreatedAt when the replacement carries none.
func (a *Articles) Replace(ctx context.Context, filter bson.M, article Article) (matched, modified int64, err error) {
	if len(filter) == 0 {
		return 0, 0, ErrEmptyFilter
	}

	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	article.UpdatedAt = time.Now()

	result, err := a.coll.ReplaceOne(ctx, filter, article)
	if err != nil {
		return 0, 0, fmt.Errorf("replacing article: %w", err)
	}
	if result.MatchedCount == 0 {
		return 0, 0, ErrNotFound
	}
	return result.MatchedCount, result.ModifiedCount, nil
}

func (a *Articles) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := a.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *Articles) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	if len(filter) == 0 {
		return 0, ErrEmptyFilter
	}

	result, err := a.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting articles: %w", err)
	}
	return result.DeletedCount, nil
}

// StatsByYear groups articles by the year of createdAt, ascending.
func (a *Articles) StatsByYear(ctx context.Context) ([]YearStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$year", Value: "$createdAt"}}},
			{Key: "totalArticles", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := a.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating article stats: %w", err)
	}

	var stats []YearStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decoding article stats: %w", err)
	}
	return stats, nil
}
