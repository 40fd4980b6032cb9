package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// MongoStore is a MongoDB-backed diagram store for server deployments.
// Each diagram is one document keyed by diagram ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // defaults to "boxtree"
	Collection string // defaults to "diagrams"
}

// mongoDoc is the document shape stored in the collection.
type mongoDoc struct {
	ID        string        `bson:"_id"`
	Diagram   model.Diagram `bson:"diagram"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "boxtree"
	}
	if cfg.Collection == "" {
		cfg.Collection = "diagrams"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a diagram by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (model.Diagram, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Diagram{}, ErrNotFound
	}
	if err != nil {
		return model.Diagram{}, err
	}
	return doc.Diagram, nil
}

// Put stores a diagram under its ID (upsert).
func (s *MongoStore) Put(ctx context.Context, d model.Diagram) error {
	doc := mongoDoc{ID: d.ID, Diagram: d, UpdatedAt: time.Now()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// Delete removes a diagram.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns summaries of all stored diagrams, sorted by ID.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var infos []Info
	for cursor.Next(ctx) {
		var doc mongoDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		infos = append(infos, Info{
			ID:         doc.ID,
			Name:       doc.Diagram.Name,
			Rectangles: len(doc.Diagram.Rectangles),
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return infos, cursor.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
