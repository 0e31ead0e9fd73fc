package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ClientConfig captures the minimal knobs required to bootstrap the Mongo-backed
// persistence layer. Values map 1:1 with env-driven configuration.
type ClientConfig struct {
	URI            string        // full connection string, e.g. mongodb://host:27017
	ConnectTimeout time.Duration // cap on initial connect + ping (0 uses a 10s default)
	MaxPoolSize    uint64        // optional cap for concurrent connections
}

// NewClient builds a mongo.Client from the shared configuration and eagerly
// verifies connectivity.
func NewClient(ctx context.Context, cfg ClientConfig) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(connectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts = opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// CloseClient disconnects the client gracefully; safe to call with nil.
func CloseClient(ctx context.Context, client *mongo.Client) {
	if client != nil {
		_ = client.Disconnect(ctx)
	}
}
