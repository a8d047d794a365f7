package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Article struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string        `bson:"title" json:"title"`
	Text      string        `bson:"text" json:"text"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updated_at"`
}

// YearStat is one row of the per-year article aggregation.
type YearStat struct {
	Year          int   `bson:"_id" json:"year"`
	TotalArticles int64 `bson:"totalArticles" json:"total_articles"`
}
