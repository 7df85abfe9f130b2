package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"drivesync/logging"
)

// Config holds persisted-store configuration
type Config struct {
	URI            string        `env:"MONGO_URI" default:"mongodb://localhost:27017"`
	Username       string        `env:"MONGO_USER"`
	Password       string        `env:"MONGO_PASSWORD"`
	AuthSource     string        `env:"MONGO_AUTH_SOURCE"`
	Database       string        `env:"MONGO_DATABASE" default:"drivesync"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" default:"25"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	PingTimeout    time.Duration `env:"MONGO_PING_TIMEOUT" default:"5s"`
}

// Database wraps the Mongo client and provides managed, collection-scoped
// access. The client is explicitly constructed and explicitly closed; no
// process-global handle exists.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	config Config
	logger *logging.Logger
}

// New connects to the persisted store and verifies the connection.
func New(ctx context.Context, config Config, logger *logging.Logger) (*Database, error) {
	opts := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetConnectTimeout(config.ConnectTimeout)

	if config.Username != "" {
		cred := options.Credential{
			Username: config.Username,
			Password: config.Password,
		}
		if config.AuthSource != "" {
			cred.AuthSource = config.AuthSource
		}
		opts = opts.SetAuth(cred)
	}

	logger.Mongo("Connecting to persisted store",
		"uri", config.URI,
		"database", config.Database,
		"max_pool_size", config.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Release the half-open client before reporting failure
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Mongo("Persisted store connected", "database", config.Database)

	return &Database{
		client: client,
		db:     client.Database(config.Database),
		config: config,
		logger: logger,
	}, nil
}

// Collection returns a handle scoped to the named collection.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Client returns the underlying Mongo client.
func (d *Database) Client() *mongo.Client {
	return d.client
}

// Health checks connectivity and reports basic status.
func (d *Database) Health(ctx context.Context) (map[string]interface{}, error) {
	pingCtx, cancel := context.WithTimeout(ctx, d.config.PingTimeout)
	defer cancel()
	if err := d.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	names, err := d.db.ListCollectionNames(ctx, map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	return map[string]interface{}{
		"database":    d.config.Database,
		"collections": names,
	}, nil
}

// Close disconnects the client. Must be called on every exit path that
// created the Database.
func (d *Database) Close(ctx context.Context) error {
	d.logger.Mongo("Closing persisted store connection")
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
