package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/?replicaSet=rs0"`
	Database string        `envconfig:"MONGO_DATABASE" default:"Library_Management_System"`
	Timeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
}

// NewClient connects and pings the primary. Multi-document transactions
// need a replica set, so a standalone server is not enough for the workflows.
func NewClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Connect")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}
	return client, nil
}
