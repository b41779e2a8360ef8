package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client *mongo.Client
	Ctx    context.Context
	Cancel context.CancelFunc
	URL    string
	Name   string
}

func NewMongoDB(url, name string) *MongoDB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	return &MongoDB{
		Ctx:    ctx,
		Cancel: cancel,
		URL:    url,
		Name:   name,
	}
}

// Connect dials with the decimal-aware registry so money fields travel as Decimal128.
func (m *MongoDB) Connect() error {
	opts := options.Client().ApplyURI(m.URL).SetRegistry(NewRegistry())
	client, err := mongo.Connect(m.Ctx, opts)
	if err != nil {
		return err
	}
	m.Client = client
	return m.Client.Ping(m.Ctx, nil)
}

func (m *MongoDB) Disconnect() error {
	defer m.Cancel()
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(context.Background())
}

func (m *MongoDB) GetContext() context.Context {
	return m.Ctx
}

func (m *MongoDB) Database() *mongo.Database {
	return m.Client.Database(m.Name)
}
