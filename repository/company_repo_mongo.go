package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cableerp/models"
)

// companyDocID is the single company profile document.
const companyDocID int64 = 1

type MongoCompanyRepo struct {
	DB *mongo.Database
}

func NewMongoCompanyRepo(db *mongo.Database) *MongoCompanyRepo {
	return &MongoCompanyRepo{DB: db}
}

func (r *MongoCompanyRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.ID = companyDocID

	_, err := r.DB.Collection(companyCollection).ReplaceOne(ctx,
		bson.M{"_id": companyDocID}, c, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoCompanyRepo) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	var c models.CompanyProfile
	err := r.DB.Collection(companyCollection).FindOne(ctx, bson.M{"_id": companyDocID}).Decode(&c)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
