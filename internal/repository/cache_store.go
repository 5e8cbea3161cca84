package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// snapshotDocument is one persisted cache snapshot keyed by persistence key.
type snapshotDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoCacheStore keeps cache snapshots in the cache_snapshots collection.
type MongoCacheStore struct {
	collection *mongo.Collection
}

// NewMongoCacheStore creates a snapshot store backed by db.
func NewMongoCacheStore(db *MongoDB) *MongoCacheStore {
	return &MongoCacheStore{collection: db.CacheSnapshots}
}

// Load returns the snapshot saved under key, or nil when none exists.
func (s *MongoCacheStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc snapshotDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Save replaces the snapshot under key.
func (s *MongoCacheStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		snapshotDocument{Key: key, Data: data, UpdatedAt: time.Now()},
		options.Replace().SetUpsert(true),
	)
	return err
}
