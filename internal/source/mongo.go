package source

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig locates the advisory collection in MongoDB.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	// MaxElapsed bounds the connect retries; zero retries forever.
	MaxElapsed time.Duration
}

// MongoSource reads advisories from a MongoDB collection. It never writes.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSource connects and pings the server, retrying with backoff until
// ctx is done or MaxElapsed passes.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = cfg.MaxElapsed

	var client *mongo.Client
	err := backoff.RetryNotify(func() error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Sugar().Warnf("Retrying connection to MongoDB in %s: %v", next, err)
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	logger.Sugar().Infof("Connected to MongoDB collection %s.%s", cfg.Database, cfg.Collection)
	return &MongoSource{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Name identifies the source in logs and sync status.
func (s *MongoSource) Name() string {
	return "mongodb:" + s.coll.Database().Name() + "." + s.coll.Name()
}

// Load returns every advisory document, newest first. Documents that cannot
// be decoded are logged and skipped.
func (s *MongoSource) Load(ctx context.Context) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published_date", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find advisories: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var r Record
		if err := cursor.Decode(&r); err != nil {
			logger.Sugar().Warnf("Skipping unreadable advisory document: %v", err)
			continue
		}
		records = append(records, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read advisories: %w", err)
	}
	return records, nil
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
