package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cableerp/models"
)

type MongoPaymentRepo struct {
	DB *mongo.Database
}

func NewMongoPaymentRepo(db *mongo.Database) *MongoPaymentRepo {
	return &MongoPaymentRepo{DB: db}
}

func (r *MongoPaymentRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	_, err := r.DB.Collection(paymentsCollection).InsertOne(ctx, p)
	return err
}

func (r *MongoPaymentRepo) ListPayments(ctx context.Context, f PaymentFilter) ([]*models.Payment, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.PartyID != "" {
		filter["party.id"] = f.PartyID
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		filter["paymentDate"] = rng
	}

	cur, err := r.DB.Collection(paymentsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []*models.Payment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
