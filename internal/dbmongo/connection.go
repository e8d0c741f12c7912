// Package dbmongo stores chat image attachments in GridFS.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"communitychat/internal/config"
)

const (
	defaultImageBucket    = "chat_images"
	defaultConnectTimeout = 5 * time.Second
	appName               = "communitychat-media"
)

// MongoClient owns the driver connection and the image bucket. Only the
// bucket is used after startup; Client is kept for Close.
type MongoClient struct {
	Client *mongo.Client
	GridFS *gridfs.Bucket
}

// NewMongoConnection connects and pings within the configured connect
// timeout so a missing media store fails startup instead of the first upload.
func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	timeout := connectTimeout(c.MongoDB)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(c))
	if err != nil {
		return nil, fmt.Errorf("connect media store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping media store within %s: %w", timeout, err)
	}

	bucket, err := gridfs.NewBucket(client.Database(c.MongoDB.Database), bucketOptions(c.MongoDB))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open image bucket: %w", err)
	}

	return &MongoClient{Client: client, GridFS: bucket}, nil
}

func connectTimeout(m config.MongoDBConfig) time.Duration {
	if m.ConnectTimeout <= 0 {
		return defaultConnectTimeout
	}
	return m.ConnectTimeout
}

func clientOptions(c *config.Config) *options.ClientOptions {
	timeout := connectTimeout(c.MongoDB)
	opts := options.Client().
		ApplyURI(c.GetMongoURI()).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if c.MongoDB.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MongoDB.MaxPoolSize)
	}
	return opts
}

func bucketOptions(m config.MongoDBConfig) *options.BucketOptions {
	name := m.ImageBucket
	if name == "" {
		name = defaultImageBucket
	}
	opts := options.GridFSBucket().SetName(name)
	if m.ChunkSizeBytes > 0 {
		opts.SetChunkSizeBytes(m.ChunkSizeBytes)
	}
	return opts
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
