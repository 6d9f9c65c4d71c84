package store

import "fmt"

// New selects a backend from config. A zero config (empty Type) returns
// (nil, nil): history is optional and the supervisor treats a nil store as
// "don't record".
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres", "postgresql":
		return NewPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store type: %q", cfg.Type)
	}
}
