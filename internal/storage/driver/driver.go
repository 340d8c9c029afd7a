// Package driver opens the storage backend selected in the configuration.
package driver

import (
	"context"
	"fmt"

	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/memory"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/mysql"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/postgres"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

// Store is a storage backend that owns a connection.
type Store interface {
	storage.Storage
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*postgres.Postgres)(nil)
	_ Store = (*mysql.MySQL)(nil)
	_ Store = (*memory.Memory)(nil)
)

// Open connects to the configured database and makes sure the schema exists.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pg, err := postgres.NewPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "mysql":
		my, err := mysql.NewMySQL(cfg)
		if err != nil {
			return nil, err
		}
		return my, nil
	case "memory":
		mem, err := openMemory(cfg.Database.Memory)
		if err != nil {
			return nil, err
		}
		return mem, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// openMemory builds an in-process store with the configured parents in place.
func openMemory(cfg config.Memory) (*memory.Memory, error) {
	store := memory.New()
	for name, ids := range cfg.Parents {
		parent, ok := media.LookupParentType(name)
		if !ok {
			return nil, fmt.Errorf("memory driver: unknown parent type %q", name)
		}
		for _, id := range ids {
			if id <= 0 {
				return nil, fmt.Errorf("memory driver: invalid %s id %d", name, id)
			}
			store.AddParent(parent, id)
		}
	}
	return store, nil
}
