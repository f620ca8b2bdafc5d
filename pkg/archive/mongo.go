package archive

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/observability"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "capreport"
	Collection string // defaults to "artifacts"
}

// MongoStore archives artifacts in a MongoDB collection, one document per
// artifact with the record fields and the raw bytes.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored shape: the record plus artifact bytes.
type mongoDoc struct {
	Record `bson:",inline"`
	Data   []byte `bson:"data"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "capreport"
	}
	if cfg.Collection == "" {
		cfg.Collection = "artifacts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb at %s", cfg.URI)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put stores an artifact, replacing any prior entry with the same ID.
func (s *MongoStore) Put(ctx context.Context, rec Record, data []byte) error {
	if rec.ArtifactID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "artifact id cannot be empty")
	}
	rec.Size = len(data)

	filter := bson.M{"artifact_id": rec.ArtifactID}
	doc := mongoDoc{Record: rec, Data: data}
	opts := options.Replace().SetUpsert(true)

	if _, err := s.coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		observability.Archive().OnArchiveError(ctx, "mongo", err)
		return errors.Wrap(errors.ErrCodeInternal, err, "archive artifact %s", rec.ArtifactID)
	}

	observability.Archive().OnArchivePut(ctx, "mongo", rec.ArtifactID, len(data))
	return nil
}

// Get retrieves an archived artifact by ID.
func (s *MongoStore) Get(ctx context.Context, artifactID string) (Record, []byte, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"artifact_id": artifactID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Record{}, nil, errors.New(errors.ErrCodeNotFound, "artifact %s not archived", artifactID)
	}
	if err != nil {
		return Record{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "fetch artifact %s", artifactID)
	}
	return doc.Record, doc.Data, nil
}

// List returns up to limit records, most recently stored first. Artifact
// bytes are not fetched.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stored_at", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list archived artifacts")
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode archived records")
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
