package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"cableerp/models"
)

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	if err := prepareUser(user); err != nil {
		return err
	}

	_, err = r.DB.Collection(usersCollection).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.Collection(usersCollection).FindOne(ctx, filter).Decode(user)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *MongoUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}
