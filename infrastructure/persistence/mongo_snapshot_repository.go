package persistence

import (
	"context"
	"errors"
	"time"

	"channel-portfolio/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoSnapshotRepository persists the catalog document as a single Mongo
// document keyed by its logical name; Save is an upserting ReplaceOne, so
// the document is replaced wholesale.

type MongoSnapshotRepository struct {
	collection *mongo.Collection
	name       string
}

type snapshotDocument struct {
	Name      string         `bson:"name"`
	Data      model.Snapshot `bson:"data"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

func NewMongoSnapshotRepository(client *mongo.Client, database string) *MongoSnapshotRepository {
	return &MongoSnapshotRepository{
		collection: client.Database(database).Collection("catalog_snapshot"),
		name:       model.SnapshotName,
	}
}

// Load returns the stored snapshot, or (nil, nil) when no document exists.
func (r *MongoSnapshotRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	var doc snapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"name": r.name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc.Data, nil
}

// Save replaces the stored document wholesale.
func (r *MongoSnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	doc := snapshotDocument{
		Name:      r.name,
		Data:      *snapshot,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"name": r.name}, doc, options.Replace().SetUpsert(true))
	return err
}
