package domain

// KVStorage is a durable string key-value store (BoltDB, Redis, or memory).
// Get reports absence with ok=false rather than an error; errors mean the
// backend itself failed.
type KVStorage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
