package profiles

import (
	"context"
	"fmt"
)

// Kinds of profile store accepted by Open.
const (
	KindPostgres = "postgres"
	KindMongo    = "mongo"
	KindRedis    = "redis"
	KindS3       = "s3"
)

// Config selects and configures a Store.
type Config struct {
	Kind        string
	PostgresDSN string
	Mongo       MongoConfig
	Redis       RedisConfig
	S3          S3Config
}

// CloseFunc releases the resources held by an opened Store.
type CloseFunc func(ctx context.Context) error

// Open connects to the store named by cfg.Kind.
func Open(ctx context.Context, cfg Config) (Store, CloseFunc, error) {
	switch cfg.Kind {
	case KindPostgres:
		db, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStore(db), func(context.Context) error { return db.Close() }, nil

	case KindMongo:
		client, db, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoStore(db), client.Disconnect, nil

	case KindRedis:
		rdb, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(rdb), func(context.Context) error { return rdb.Close() }, nil

	case KindS3:
		c, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Store(c, cfg.S3.Bucket), func(context.Context) error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown profile store %q", cfg.Kind)
}
