package store

import (
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
)

// Driver names accepted by Open
const (
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a storage backend
type Options struct {
	Driver string
	Path   string // bolt: data directory
	Redis  RedisOptions
}

// Open creates the configured KVStorage backend
func Open(opts Options) (domain.KVStorage, error) {
	switch opts.Driver {
	case "", DriverBolt:
		if opts.Path == "" {
			return nil, fmt.Errorf("bolt storage requires a path")
		}
		s, err := NewBoltStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewBoltStore("")
	case DriverRedis:
		s, err := NewRedisStore(opts.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", opts.Driver)
	}
}
