package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cableerp/models"
)

type MongoOrderRepo struct {
	DB *mongo.Database
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{DB: db}
}

func (r *MongoOrderRepo) coll() *mongo.Collection {
	return r.DB.Collection(ordersCollection)
}

func (r *MongoOrderRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := r.coll().InsertOne(ctx, o)
	return err
}

func (r *MongoOrderRepo) GetOrder(ctx context.Context, kind models.OrderKind, id string) (*models.Order, error) {
	o := &models.Order{}
	err := r.coll().FindOne(ctx, bson.M{"_id": id, "kind": kind}).Decode(o)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func (r *MongoOrderRepo) ListOrders(ctx context.Context, f OrderFilter) ([]*models.Order, error) {
	filter := bson.M{}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.PartyID != "" {
		filter["partyId"] = f.PartyID
	}
	if len(f.PaymentStatuses) > 0 {
		filter["paymentStatus"] = bson.M{"$in": f.PaymentStatuses}
	}
	if f.Search != "" {
		re := containsRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"orderNumber": re}, bson.M{"partyName": re}}
	}

	var sort bson.D
	switch f.Sort {
	case OldestCreatedFirst:
		sort = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case NewestOrderDateFirst:
		sort = bson.D{{Key: "orderDate", Value: -1}, {Key: "_id", Value: -1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}

	cur, err := r.coll().Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	out := []*models.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoOrderRepo) UpdateOrder(ctx context.Context, o *models.Order) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": o.ID, "kind": o.Kind}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (r *MongoOrderRepo) DeleteOrder(ctx context.Context, kind models.OrderKind, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id, "kind": kind})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
