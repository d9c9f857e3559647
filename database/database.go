// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

// AdvisoryCollection holds one document per vendor advisory.
const AdvisoryCollection = "advisory"

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Config holds the connection settings read from the environment.
type Config struct {
	URL          string
	User         string
	Password     string
	DatabaseName string

	// MaxElapsed bounds the connect retries; zero retries forever.
	MaxElapsed time.Duration
}

// ConfigFromEnv reads ARANGO_HOST, ARANGO_PORT, ARANGO_USER, ARANGO_PASS, ARANGO_URL and ARANGO_DB.
func ConfigFromEnv() Config {
	dbhost := util.GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := util.GetEnvDefault("ARANGO_PORT", "8529")
	return Config{
		URL:          util.GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport),
		User:         util.GetEnvDefault("ARANGO_USER", "root"),
		Password:     util.GetEnvDefault("ARANGO_PASS", "mypassword"),
		DatabaseName: util.GetEnvDefault("ARANGO_DB", "vulnwatch"),
	}
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxFields  []string
}

var advisoryIndexes = []indexConfig{
	{Collection: AdvisoryCollection, IdxName: "advisory_vendor", IdxFields: []string{"vendor"}},
	{Collection: AdvisoryCollection, IdxName: "advisory_product", IdxFields: []string{"product"}},
	{Collection: AdvisoryCollection, IdxName: "advisory_severity", IdxFields: []string{"severity"}},
	{Collection: AdvisoryCollection, IdxName: "advisory_published_date", IdxFields: []string{"published_date"}},
	{Collection: AdvisoryCollection, IdxName: "advisory_cve_id", IdxFields: []string{"cve_id"}},

	// vendor dashboards list newest first
	{Collection: AdvisoryCollection, IdxName: "advisory_vendor_published", IdxFields: []string{"vendor", "published_date"}},
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase connects to the db engine, creating the database, the advisory
// collection and its indexes when they are missing.
func InitializeDatabase(ctx context.Context, cfg Config) (DBConnection, error) {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = cfg.MaxElapsed

	err := backoff.RetryNotify(func() error {
		logger.Sugar().Infof("Attempting to connect to ArangoDB at %s", cfg.URL)
		endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.User, cfg.Password))

		client = arangodb.NewClient(conn)

		versionInfo, err := client.Version(ctx)
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)
		return nil

	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Sugar().Warnf("Retrying connection to ArangoDB in %s: %v", next, err)
	})
	if err != nil {
		return DBConnection{}, fmt.Errorf("connect to arangodb: %w", err)
	}

	//
	// Database creation
	//

	db, err := ensureDatabase(ctx, client, cfg.DatabaseName)
	if err != nil {
		return DBConnection{}, err
	}

	//
	// Collection creation for document storage
	//

	collections := make(map[string]arangodb.Collection)
	for _, collectionName := range []string{AdvisoryCollection} {
		col, err := ensureCollection(ctx, db, collectionName)
		if err != nil {
			return DBConnection{}, err
		}
		collections[collectionName] = col
	}

	//
	// Index creation
	//

	for _, idx := range advisoryIndexes {
		if err := ensureIndex(ctx, collections[idx.Collection], idx); err != nil {
			return DBConnection{}, err
		}
	}

	logger.Sugar().Infof("Database initialization complete for %s", cfg.DatabaseName)

	return DBConnection{
		Database:    db,
		Collections: collections,
	}, nil
}

func ensureDatabase(ctx context.Context, client arangodb.Client, name string) (arangodb.Database, error) {
	dblist, err := client.Databases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	exists := false
	for _, dbinfo := range dblist {
		if dbinfo.Name() == name {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		db, err := client.GetDatabase(ctx, name, &options)
		if err != nil {
			return nil, fmt.Errorf("get database %s: %w", name, err)
		}
		return db, nil
	}

	db, err := client.CreateDatabase(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("create database %s: %w", name, err)
	}
	return db, nil
}

func ensureCollection(ctx context.Context, db arangodb.Database, name string) (arangodb.Collection, error) {
	exists, err := db.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", name, err)
	}

	if exists {
		var options arangodb.GetCollectionOptions
		col, err := db.GetCollection(ctx, name, &options)
		if err != nil {
			return nil, fmt.Errorf("use collection %s: %w", name, err)
		}
		return col, nil
	}

	col, err := db.CreateCollection(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return col, nil
}

func ensureIndex(ctx context.Context, col arangodb.Collection, idx indexConfig) error {
	if indexes, err := col.Indexes(ctx); err == nil {
		for _, index := range indexes {
			if idx.IdxName == index.Name {
				return nil
			}
		}
	}

	False := false
	indexOptions := arangodb.CreatePersistentIndexOptions{
		Unique: &False,
		Sparse: &False,
		Name:   idx.IdxName,
	}

	if _, _, err := col.EnsurePersistentIndex(ctx, idx.IdxFields, &indexOptions); err != nil {
		return fmt.Errorf("create index %s: %w", idx.IdxName, err)
	}
	logger.Sugar().Infof("Created index: %s on %s%v", idx.IdxName, idx.Collection, idx.IdxFields)
	return nil
}
