package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	dbmongo "cableerp/db/mongo"
	"cableerp/models"
)

type MongoPartyRepo struct {
	DB *mongo.Database
}

func NewMongoPartyRepo(db *mongo.Database) *MongoPartyRepo {
	return &MongoPartyRepo{DB: db}
}

func (r *MongoPartyRepo) coll() *mongo.Collection {
	return r.DB.Collection(partiesCollection)
}

func (r *MongoPartyRepo) CreateParty(ctx context.Context, p *models.Party) error {
	_, err := r.coll().InsertOne(ctx, p)
	return err
}

func (r *MongoPartyRepo) GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	p := &models.Party{}
	err := r.coll().FindOne(ctx, bson.M{"_id": id, "kind": kind}).Decode(p)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *MongoPartyRepo) ListParties(ctx context.Context, kind models.PartyKind, search string) ([]*models.Party, error) {
	filter := bson.M{"kind": kind}
	if search != "" {
		filter["name"] = containsRegex(search)
	}
	cur, err := r.coll().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []*models.Party{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoPartyRepo) UpdateParty(ctx context.Context, p *models.Party) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": p.ID, "kind": p.Kind}, bson.M{"$set": bson.M{
		"name":            p.Name,
		"email":           p.Email,
		"phone":           p.Phone,
		"contactPerson":   p.ContactPerson,
		"billingAddress":  p.BillingAddress,
		"deliveryAddress": p.DeliveryAddress,
		"gstNumber":       p.GSTNumber,
		"status":          p.Status,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (r *MongoPartyRepo) DeleteParty(ctx context.Context, kind models.PartyKind, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id, "kind": kind})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

// IncrementBalance runs an update pipeline so the add and the zero floor
// happen inside a single document write.
func (r *MongoPartyRepo) IncrementBalance(ctx context.Context, kind models.PartyKind, id string, delta decimal.Decimal) (*models.Party, error) {
	d128, err := dbmongo.ToDecimal128(delta)
	if err != nil {
		return nil, fmt.Errorf("balance delta %s: %w", delta, err)
	}
	zero, _ := dbmongo.ToDecimal128(decimal.Zero)

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "outstandingBalance", Value: bson.D{{Key: "$max", Value: bson.A{
			zero,
			bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$outstandingBalance", zero}}}, d128}}},
		}}}}}}},
	}

	p := &models.Party{}
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": id, "kind": kind}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(p)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *MongoPartyRepo) SetBalance(ctx context.Context, kind models.PartyKind, id string, balance decimal.Decimal) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id, "kind": kind},
		bson.M{"$set": bson.M{"outstandingBalance": decimal.Max(decimal.Zero, balance)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
