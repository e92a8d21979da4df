package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/observability"
)

const (
	mongoDatabase   = "copnumber"
	mongoCollection = "results"
)

// Mongo archives verdicts in a MongoDB collection, keyed by the record
// hash as _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects and pings the deployment at uri.
func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo %s", uri)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, key string) (*Record, error) {
	var rec Record
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		observability.Store().OnMiss(ctx, "mongo")
		return nil, errors.New(errors.ErrCodeNotFound, "no record for key %s", key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "mongo find %s", key)
	}
	observability.Store().OnHit(ctx, "mongo")
	return &rec, nil
}

func (m *Mongo) Set(ctx context.Context, rec *Record) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": rec.Key}, rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "mongo upsert %s", rec.Key)
	}
	observability.Store().OnSet(ctx, "mongo")
	return nil
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "mongo delete %s", key)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
