package config

import (
	"fmt"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"fiftytwo-go/app/storage"
	"fiftytwo-go/app/storage/bolt"
	"fiftytwo-go/app/storage/memory"
	storeneo4j "fiftytwo-go/app/storage/neo4j"
)

// InitStore initializes the persistence backend selected by the config.
func InitStore(cfg Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case DriverBolt:
		return bolt.Open(cfg.BoltPath)
	case DriverNeo4j:
		driver, err := neo4jdriver.NewDriverWithContext(cfg.Neo4jURI, neo4jdriver.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			return nil, fmt.Errorf("init neo4j driver: %w", err)
		}
		return storeneo4j.New(driver), nil
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
