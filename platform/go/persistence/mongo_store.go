package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// countersCollection holds one counter document per collection name, each
// carrying the last-issued sequence value.
const countersCollection = "counters"

const defaultOpTimeout = 5 * time.Second

// MongoStore implements Store on a MongoDB database. Native keys are ObjectID
// hex strings; sequence counters use an atomic findOneAndUpdate with $inc so
// concurrent creations can never share an id. Every round-trip runs under a
// per-operation timeout layered on the caller's context.
type MongoStore struct {
	db        *mongo.Database
	opTimeout time.Duration
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore wraps the named database. opTimeout bounds each store
// round-trip; zero selects a 5s default.
func NewMongoStore(client *mongo.Client, database string, opTimeout time.Duration) (*MongoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("mongo client is required")
	}
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &MongoStore{db: client.Database(database), opTimeout: opTimeout}, nil
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// Insert persists the document and returns it with the generated native key.
func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.Collection(collection).InsertOne(opCtx, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("insert into %q: %w", collection, err)
	}

	stored := copyDocument(doc)
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		stored[NativeKeyField] = oid.Hex()
	}
	return stored, nil
}

// FindByNativeKey fetches a document by ObjectID hex.
func (s *MongoStore) FindByNativeKey(ctx context.Context, collection, nativeKey string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(nativeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, nativeKey)
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	err = s.db.Collection(collection).FindOne(opCtx, bson.M{NativeKeyField: oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %q by native key: %w", collection, err)
	}
	return normalizeDocument(raw), nil
}

// FindOne fetches the first document matching the filter.
func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter, projection []string) (Document, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne()
	if len(projection) > 0 {
		opts = opts.SetProjection(projectionDocument(projection))
	}

	var raw bson.M
	err := s.db.Collection(collection).FindOne(opCtx, mongoFilter(filter), opts).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %q: %w", collection, err)
	}
	return normalizeDocument(raw), nil
}

// Find fetches documents matching the options.
func (s *MongoStore) Find(ctx context.Context, collection string, opts FindOptions) ([]Document, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	findOpts := options.Find()
	if opts.Sort.Field != "" {
		dir := -1
		if opts.Sort.Order == SortAsc {
			dir = 1
		}
		findOpts = findOpts.SetSort(bson.D{{Key: opts.Sort.Field, Value: dir}})
	}
	if opts.Skip > 0 {
		findOpts = findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(opts.Limit)
	}
	if len(opts.Projection) > 0 {
		findOpts = findOpts.SetProjection(projectionDocument(opts.Projection))
	}

	cursor, err := s.db.Collection(collection).Find(opCtx, mongoFilter(opts.Filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find in %q: %w", collection, err)
	}
	defer cursor.Close(opCtx)

	var docs []Document
	for cursor.Next(opCtx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document from %q: %w", collection, err)
		}
		docs = append(docs, normalizeDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate %q cursor: %w", collection, err)
	}
	return docs, nil
}

// Count returns the number of documents matching the filter.
func (s *MongoStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, err := s.db.Collection(collection).CountDocuments(opCtx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", collection, err)
	}
	return total, nil
}

// Update applies a $set to the first match and returns the updated document.
func (s *MongoStore) Update(ctx context.Context, collection string, filter Filter, set Document) (Document, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err := s.db.Collection(collection).
		FindOneAndUpdate(opCtx, mongoFilter(filter), bson.M{"$set": bson.M(set)}, opts).
		Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %q: %w", collection, err)
	}
	return normalizeDocument(raw), nil
}

// NextSequence atomically increments the named counter, creating it on first use.
func (s *MongoStore) NextSequence(ctx context.Context, name string) (int64, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).
		FindOneAndUpdate(opCtx, bson.M{NativeKeyField: name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment counter %q: %w", name, err)
	}
	return counter.Seq, nil
}

// mongoFilter translates the typed predicate model into a bson filter.
func mongoFilter(f Filter) bson.M {
	parts := make([]bson.M, 0, len(f.Clauses)+1)
	for _, clause := range f.Clauses {
		parts = append(parts, mongoClause(clause))
	}
	if len(f.Or) > 0 {
		orParts := make([]bson.M, 0, len(f.Or))
		for _, clause := range f.Or {
			orParts = append(orParts, mongoClause(clause))
		}
		parts = append(parts, bson.M{"$or": orParts})
	}

	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0]
	default:
		return bson.M{"$and": parts}
	}
}

func mongoClause(clause Clause) bson.M {
	switch clause.Op {
	case OpContainsFold:
		pattern := ""
		if s, ok := clause.Value.(string); ok {
			pattern = regexp.QuoteMeta(s)
		}
		return bson.M{clause.Field: bson.M{"$regex": pattern, "$options": "i"}}
	case OpIn:
		return bson.M{clause.Field: bson.M{"$in": clause.Value}}
	default:
		value := clause.Value
		if clause.Field == NativeKeyField {
			if hexKey, ok := value.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(hexKey); err == nil {
					value = oid
				}
			}
		}
		return bson.M{clause.Field: value}
	}
}

func projectionDocument(fields []string) bson.M {
	projection := make(bson.M, len(fields))
	for _, field := range fields {
		projection[field] = 1
	}
	return projection
}

// normalizeDocument converts driver types into the engine's document shape:
// ObjectIDs become hex strings, DateTimes become time.Time, int32 widens to
// int64, and nested containers are normalized recursively.
func normalizeDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for field, value := range raw {
		doc[field] = normalizeValue(value)
	}
	return doc
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case int32:
		return int64(v)
	case bson.M:
		return normalizeDocument(v)
	case bson.D:
		nested := make(Document, len(v))
		for _, elem := range v {
			nested[elem.Key] = normalizeValue(elem.Value)
		}
		return nested
	case bson.A:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = normalizeValue(item)
		}
		return items
	default:
		return v
	}
}
