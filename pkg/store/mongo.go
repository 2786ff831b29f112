package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pomtree/pomtree/pkg/pom"
)

// MongoStore persists resolved models in a MongoDB collection, for server
// deployments where resolutions outlive a process.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string
	// Database defaults to "pomtree"; Collection to "models".
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB, verifies the connection, and ensures
// the fingerprint index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "pomtree"
	}
	if cfg.Collection == "" {
		cfg.Collection = "models"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// Put stores a resolved model, replacing any record with the same
// fingerprint.
func (s *MongoStore) Put(ctx context.Context, fingerprint string, model *pom.Pom) error {
	rec := newRecord(fingerprint, model)
	// The new record carries a new _id, which a replacement may not change,
	// so the old document is removed before the new one is inserted.
	if _, err := s.collection.DeleteOne(ctx, bson.M{"fingerprint": fingerprint}); err != nil {
		return err
	}
	_, err := s.collection.InsertOne(ctx, rec)
	return err
}

// GetByID retrieves a model by UUID string.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*Record, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByFingerprint retrieves a model by structural fingerprint.
func (s *MongoStore) GetByFingerprint(ctx context.Context, fingerprint string) (*Record, error) {
	return s.findOne(ctx, bson.M{"fingerprint": fingerprint})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*Record, error) {
	var rec Record
	err := s.collection.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	restoreModelID(&rec)
	return &rec, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
