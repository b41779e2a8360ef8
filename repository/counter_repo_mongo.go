package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCounterRepo struct {
	DB *mongo.Database
}

func NewMongoCounterRepo(db *mongo.Database) *MongoCounterRepo {
	return &MongoCounterRepo{DB: db}
}

// NextSequence upserts the series document and returns the incremented value.
func (r *MongoCounterRepo) NextSequence(ctx context.Context, series string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.DB.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": series},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
