package persistence

import (
	"fmt"
	"net/url"

	"channel-portfolio/infrastructure/configuration"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb creates a Mongo client from configuration.
func NewMongoDb() (*mongo.Client, error) {
	cfg := configuration.C.Database.Mongo

	u := &url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(u.String()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, nil
}
