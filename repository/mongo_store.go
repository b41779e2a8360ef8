package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	partiesCollection  = "parties"
	ordersCollection   = "orders"
	invoicesCollection = "invoices"
	paymentsCollection = "payments"
	countersCollection = "counters"
	usersCollection    = "app_user"
	companyCollection  = "company_profile"
)

// NewMongoStore wires every repository to one database. The client behind db
// must use the decimal-aware registry from db/mongo.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Parties:  NewMongoPartyRepo(db),
		Orders:   NewMongoOrderRepo(db),
		Invoices: NewMongoInvoiceRepo(db),
		Payments: NewMongoPaymentRepo(db),
		Counters: NewMongoCounterRepo(db),
		Users:    NewMongoUserRepo(db),
		Company:  NewMongoCompanyRepo(db),
	}
}

// EnsureMongoIndexes creates the indexes the list queries and unique numbers rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		partiesCollection: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "name", Value: 1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "partyId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		invoicesCollection: {
			{Keys: bson.D{{Key: "invoiceNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "salesOrder", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "party.id", Value: 1}, {Key: "paymentDate", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, idx := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
