package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	// ErrUnavailable is returned by every write path when no live database
	// connection exists. Reads instead return empty results, matching the
	// read/write asymmetry of the HTTP contract.
	ErrUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned when an id matches no document on update or
	// delete, or when a single-document lookup misses.
	ErrNotFound = errors.New("document not found")
)

// Store is a thin adapter over named MongoDB collections. A zero Store is
// valid and behaves as a disconnected one.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against uri and selects the named database. An
// empty uri yields a disconnected Store rather than an error, so the
// process can serve diagnostics without a database.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	if uri == "" {
		return &Store{}, nil
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &Store{client: client, db: client.Database(name)}, nil
}

func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

func (s *Store) DatabaseName() string {
	if !s.Available() {
		return ""
	}
	return s.db.Name()
}

func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return ErrUnavailable
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// CreateDocument inserts record into the named collection and returns the
// generated id as hex.
func (s *Store) CreateDocument(ctx context.Context, collection string, record any) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	res, err := s.db.Collection(collection).InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return id.Hex(), nil
}

// GetDocuments returns all documents in the named collection matching
// filter, in store-native order. A disconnected Store returns an empty
// result, not an error.
func (s *Store) GetDocuments(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	if !s.Available() {
		return []bson.M{}, nil
	}
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindOne fetches a single document matching filter. ErrNotFound on miss.
func (s *Store) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateByID replaces the fields of the document with the given id.
func (s *Store) UpdateByID(ctx context.Context, collection string, id primitive.ObjectID, fields any) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes the document with the given id. ErrNotFound when
// nothing was deleted.
func (s *Store) DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every document matching filter and reports how many
// went away. Used by the student cascade.
func (s *Store) DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if !s.Available() {
		return 0, ErrUnavailable
	}
	res, err := s.db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Upsert updates the document matching filter in place, inserting it when
// absent. setOnInsert fields apply only on the insert path.
func (s *Store) Upsert(ctx context.Context, collection string, filter bson.M, set any, setOnInsert bson.M) error {
	if !s.Available() {
		return ErrUnavailable
	}
	update := bson.M{"$set": set}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
