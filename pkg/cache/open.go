package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend         string
	Dir             string // file
	RedisAddr       string // redis
	RedisPrefix     string // redis
	MongoURI        string // mongo
	MongoDatabase   string // mongo
	MongoCollection string // mongo; defaults to "results"
}

// Open creates the cache described by opts. An empty backend disables
// caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr, opts.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		coll := opts.MongoCollection
		if coll == "" {
			coll = "results"
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase, coll)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
