package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/montoya-e/laked/internal/core/domain"
)

// MongoDocumentStore is the datalake's raw collection. Documents are
// keyed by their source object key so re-ingestion stays idempotent.
type MongoDocumentStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoDocumentStore(ctx context.Context, endpoint *domain.MongoEndpoint, collection string) (*MongoDocumentStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint.URI()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to datalake - %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("datalake is not reachable at %s:%d - %w", endpoint.Host, endpoint.Port, err)
	}

	return &MongoDocumentStore{
		client:     client,
		collection: client.Database(endpoint.Database).Collection(collection),
	}, nil
}

// UpsertRaw inserts the document under the given key and reports
// whether it was newly inserted. An existing document is left as is.
func (m *MongoDocumentStore) UpsertRaw(ctx context.Context, key string, doc map[string]interface{}) (bool, error) {
	update := bson.M{"$setOnInsert": doc}

	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert document %s - %w", key, err)
	}
	return res.UpsertedCount > 0, nil
}

func (m *MongoDocumentStore) FindAllRaw(ctx context.Context) ([]map[string]interface{}, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read datalake collection - %w", err)
	}
	defer cursor.Close(ctx)

	var docs []map[string]interface{}
	for cursor.Next(ctx) {
		doc := map[string]interface{}{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document - %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (m *MongoDocumentStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
