package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/complyhq/complybot/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewConnection(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	opts := options.Client().
		SetAppName("complybot").
		SetDirect(cfg.Direct).
		SetHosts(cfg.Hosts).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second)

	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:      cfg.Username,
			Password:      cfg.Password,
			AuthSource:    cfg.AuthDB,
			AuthMechanism: "SCRAM-SHA-1",
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
