package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cableerp/models"
)

type MongoInvoiceRepo struct {
	DB *mongo.Database
}

func NewMongoInvoiceRepo(db *mongo.Database) *MongoInvoiceRepo {
	return &MongoInvoiceRepo{DB: db}
}

func (r *MongoInvoiceRepo) coll() *mongo.Collection {
	return r.DB.Collection(invoicesCollection)
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (r *MongoInvoiceRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	_, err := r.coll().InsertOne(ctx, inv)
	return err
}

func (r *MongoInvoiceRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Invoice, error) {
	inv := &models.Invoice{}
	if err := r.coll().FindOne(ctx, filter, opts...).Decode(inv); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *MongoInvoiceRepo) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoInvoiceRepo) LatestInvoiceForOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"salesOrder": orderID}, options.FindOne().SetSort(newestFirst))
}

func (r *MongoInvoiceRepo) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	cur, err := r.coll().Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := []*models.Invoice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoInvoiceRepo) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": inv.ID}, inv)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (r *MongoInvoiceRepo) DeleteInvoice(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
