package analysis

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the primary durable RecordStore: one document per record,
// reads sorted by createdAt descending. No uniqueness constraint exists on
// (file, stem, version); duplicates are resolved at read time.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a record store over the given collection
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// Insert persists a new record document
func (s *MongoStore) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// Latest returns the most recent matching record, or nil when none matches
func (s *MongoStore) Latest(ctx context.Context, q Query) (*Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var rec Record
	err := s.collection.FindOne(ctx, filterFor(q), opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	return &rec, nil
}

// LatestBatch returns the most recent record per file reference in input
// order
func (s *MongoStore) LatestBatch(ctx context.Context, fileReferences []string, q Query) ([]*Record, error) {
	if len(fileReferences) == 0 {
		return []*Record{}, nil
	}

	filter := filterFor(q)
	filter["fileReference"] = bson.M{"$in": fileReferences}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	defer cursor.Close(ctx)

	// Descending sort means the first document seen per file is its most
	// recent record
	latest := make(map[string]*Record, len(fileReferences))
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, &PersistenceError{Op: "select", Err: err}
		}
		if _, seen := latest[rec.FileReference]; !seen {
			latest[rec.FileReference] = &rec
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}

	results := []*Record{}
	for _, fileRef := range fileReferences {
		if rec, ok := latest[fileRef]; ok {
			results = append(results, rec)
		}
	}
	return results, nil
}

func filterFor(q Query) bson.M {
	filter := bson.M{}
	if q.FileReference != "" {
		filter["fileReference"] = q.FileReference
	}
	if q.OwnerReference != "" {
		filter["ownerReference"] = q.OwnerReference
	}
	if q.StemLabel != "" {
		filter["stemLabel"] = q.StemLabel
	}
	if q.AnalysisVersion != "" {
		filter["analysisVersion"] = q.AnalysisVersion
	}
	return filter
}
